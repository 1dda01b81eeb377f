package storage

import (
	"strings"

	"github.com/romangod6/sitemap-xml/internal/models"
)

// DefaultBaseURL is used for full-URL resolution when no base is configured.
const DefaultBaseURL = "http://localhost"

// LinkOptions controls how ItemURL renders a node.
type LinkOptions struct {
	Site                   *models.Site
	SiteResolving          bool
	AlwaysIncludeServerURL bool
}

// LinkManager renders repository links for content nodes.
type LinkManager struct {
	baseURL string
}

func NewLinkManager(baseURL string) *LinkManager {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &LinkManager{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// ItemURL returns the link of node. Nodes carrying an explicit link return it
// verbatim, which may be absolute. Nodes below the site's start path get a
// site-root-relative URL; with site resolving enabled, nodes outside the site
// are rendered against the repository's own host.
func (lm *LinkManager) ItemURL(node *models.ContentNode, opts LinkOptions) string {
	if node.Link != "" {
		return node.Link
	}

	rel, inSite := node.Path, false
	if opts.Site != nil {
		rel, inSite = relativeToStart(node.Path, opts.Site.StartPath)
	}
	url := slugPath(rel)

	if opts.AlwaysIncludeServerURL || (opts.SiteResolving && opts.Site != nil && !inSite) {
		return lm.FullURL(url)
	}
	return url
}

// FullURL resolves raw against the repository's base URL. Absolute input is
// returned unchanged.
func (lm *LinkManager) FullURL(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return lm.baseURL + "/" + strings.TrimPrefix(raw, "/")
}

func relativeToStart(path, start string) (string, bool) {
	start = strings.TrimSuffix(start, "/")
	if start == "" {
		return path, false
	}
	if strings.EqualFold(path, start) {
		return "/", true
	}
	if len(path) > len(start) && strings.EqualFold(path[:len(start)+1], start+"/") {
		return path[len(start):], true
	}
	return path, false
}

func slugPath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(seg)), " ", "-")
	}
	out := strings.Join(segments, "/")
	if !strings.HasPrefix(out, "/") {
		out = "/" + out
	}
	return out
}
