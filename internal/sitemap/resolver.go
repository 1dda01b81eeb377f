package sitemap

import (
	"context"
	"log/slog"
	"strings"

	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/romangod6/sitemap-xml/internal/storage"
)

const (
	protocolHTTP  = "http"
	protocolHTTPS = "https"
	schemeSep     = "://"
)

// LinkProvider renders raw item links and the repository's own full URLs.
type LinkProvider interface {
	ItemURL(node *models.ContentNode, opts storage.LinkOptions) string
	FullURL(raw string) string
}

type hostSource int

const (
	hostServer   hostSource = iota // configured server URL
	hostProperty                   // site hostname property
	hostRaw                        // raw URL's own host, repository default when relative
)

type schemeSource int

const (
	schemeConfigured schemeSource = iota
	schemeRaw
)

type resolutionKey struct {
	server, protocol, hostname bool
}

type resolution struct {
	host   hostSource
	scheme schemeSource
}

// resolutionTable covers every combination of configured server URL,
// protocol and hostname property.
var resolutionTable = map[resolutionKey]resolution{
	{server: true, protocol: true, hostname: true}:    {hostServer, schemeConfigured},
	{server: true, protocol: true, hostname: false}:   {hostServer, schemeConfigured},
	{server: true, protocol: false, hostname: true}:   {hostServer, schemeRaw},
	{server: true, protocol: false, hostname: false}:  {hostServer, schemeRaw},
	{server: false, protocol: true, hostname: true}:   {hostProperty, schemeConfigured},
	{server: false, protocol: false, hostname: true}:  {hostProperty, schemeRaw},
	{server: false, protocol: true, hostname: false}:  {hostRaw, schemeConfigured},
	{server: false, protocol: false, hostname: false}: {hostRaw, schemeRaw},
}

// Resolver turns content nodes into absolute URLs under their site's host.
type Resolver struct {
	links         LinkProvider
	siteResolving bool
	logger        *slog.Logger
}

func NewResolver(links LinkProvider, siteResolving bool, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		links:         links,
		siteResolving: siteResolving,
		logger:        logger,
	}
}

// ResolveURL returns the absolute URL of node on site.
func (r *Resolver) ResolveURL(ctx context.Context, node *models.ContentNode, site models.Site) string {
	raw := r.links.ItemURL(node, storage.LinkOptions{
		Site:                   &site,
		SiteResolving:          r.siteResolving,
		AlwaysIncludeServerURL: false,
	})
	return r.Reconcile(ctx, raw, site)
}

// SitemapURL returns the public URL of the site's sitemap file.
func (r *Resolver) SitemapURL(ctx context.Context, site models.Site) string {
	return r.Reconcile(ctx, "/"+strings.TrimPrefix(site.SitemapFile, "/"), site)
}

// Reconcile applies the site's server URL, protocol and hostname to a raw
// repository link.
func (r *Resolver) Reconcile(ctx context.Context, raw string, site models.Site) string {
	server := stripScheme(site.ServerURL)
	protocol := strings.ToLower(site.Protocol)

	rule := resolutionTable[resolutionKey{
		server:   server != "",
		protocol: protocol != "",
		hostname: site.Hostname != "",
	}]
	link := splitLink(raw)

	scheme := protocol
	if rule.scheme == schemeRaw {
		scheme = link.scheme
	}

	var result string
	switch rule.host {
	case hostServer:
		result = scheme + schemeSep + server + link.path
	case hostProperty:
		result = scheme + schemeSep + site.Hostname + link.path
	default:
		if link.absolute {
			result = scheme + schemeSep + link.rest
		} else {
			result = r.links.FullURL(raw)
		}
	}

	r.logger.DebugContext(ctx, "Resolved item url",
		slog.String("raw_url", raw),
		slog.String("site", site.Name),
		slog.String("server_url", server),
		slog.String("protocol", protocol),
		slog.String("result", result))

	return result
}

// stripScheme removes a leading http:// or https:// from a configured server
// URL. Values without a scheme are returned as given.
func stripScheme(serverURL string) string {
	host := strings.TrimSpace(serverURL)
	for _, prefix := range []string{protocolHTTP + schemeSep, protocolHTTPS + schemeSep} {
		if len(host) >= len(prefix) && strings.EqualFold(host[:len(prefix)], prefix) {
			host = host[len(prefix):]
			break
		}
	}
	return strings.TrimSuffix(host, "/")
}

type rawLink struct {
	absolute bool
	scheme   string // raw scheme, or http for relative links
	rest     string // everything after the scheme separator
	path     string // path part to append to a replacement host
}

func splitLink(raw string) rawLink {
	idx := strings.Index(raw, schemeSep)
	if idx <= 0 {
		path := raw
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return rawLink{scheme: protocolHTTP, path: path}
	}

	rest := raw[idx+len(schemeSep):]
	link := rawLink{
		absolute: true,
		scheme:   strings.ToLower(raw[:idx]),
		rest:     rest,
	}
	if slash := strings.Index(rest, "/"); slash >= 0 {
		link.path = rest[slash:]
	}
	return link
}
