package sitemap

import (
	"context"
	"testing"

	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/romangod6/sitemap-xml/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver() *Resolver {
	return NewResolver(storage.NewLinkManager("http://cms.local"), true, nil)
}

func TestReconcile(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	tests := []struct {
		name string
		site models.Site
		raw  string
		want string
	}{
		{
			name: "absolute raw url is re-hosted under configured server and protocol",
			site: models.Site{Name: "web", ServerURL: "https://example.com", Protocol: "https"},
			raw:  "http://internal-host/a/b",
			want: "https://example.com/a/b",
		},
		{
			name: "relative raw url with hostname property",
			site: models.Site{Name: "web", Hostname: "example.org", Protocol: "https"},
			raw:  "/a/b",
			want: "https://example.org/a/b",
		},
		{
			name: "relative raw url prefixed with configured server",
			site: models.Site{Name: "web", ServerURL: "http://example.com", Protocol: "https"},
			raw:  "/news/today",
			want: "https://example.com/news/today",
		},
		{
			name: "server url without scheme is used as given",
			site: models.Site{Name: "web", ServerURL: "example.com", Protocol: "http"},
			raw:  "/a",
			want: "http://example.com/a",
		},
		{
			name: "trailing slash on server url is dropped",
			site: models.Site{Name: "web", ServerURL: "https://example.com/", Protocol: "https"},
			raw:  "/a",
			want: "https://example.com/a",
		},
		{
			name: "server without protocol keeps raw scheme",
			site: models.Site{Name: "web", ServerURL: "https://example.com"},
			raw:  "https://internal/a",
			want: "https://example.com/a",
		},
		{
			name: "server without protocol defaults relative urls to http",
			site: models.Site{Name: "web", ServerURL: "https://example.com"},
			raw:  "/a",
			want: "http://example.com/a",
		},
		{
			name: "absolute raw url without path",
			site: models.Site{Name: "web", ServerURL: "https://example.com", Protocol: "https"},
			raw:  "http://internal-host",
			want: "https://example.com",
		},
		{
			name: "server takes precedence over hostname",
			site: models.Site{Name: "web", ServerURL: "www.example.com", Hostname: "example.org", Protocol: "https"},
			raw:  "/a",
			want: "https://www.example.com/a",
		},
		{
			name: "hostname re-hosts absolute raw url",
			site: models.Site{Name: "web", Hostname: "example.org", Protocol: "https"},
			raw:  "http://cms.local/a",
			want: "https://example.org/a",
		},
		{
			name: "only protocol configured re-prefixes absolute url",
			site: models.Site{Name: "web", Protocol: "https"},
			raw:  "http://cms.local/a/b",
			want: "https://cms.local/a/b",
		},
		{
			name: "only protocol configured keeps matching absolute url",
			site: models.Site{Name: "web", Protocol: "https"},
			raw:  "https://cms.local/a/b",
			want: "https://cms.local/a/b",
		},
		{
			name: "nothing configured delegates relative url to repository",
			site: models.Site{Name: "web"},
			raw:  "/a/b",
			want: "http://cms.local/a/b",
		},
		{
			name: "protocol only delegates relative url to repository",
			site: models.Site{Name: "web", Protocol: "https"},
			raw:  "/a/b",
			want: "http://cms.local/a/b",
		},
		{
			name: "nothing configured keeps absolute url",
			site: models.Site{Name: "web"},
			raw:  "https://other.example/a",
			want: "https://other.example/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Reconcile(ctx, tt.raw, tt.site))
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()
	site := models.Site{Name: "web", ServerURL: "https://example.com", Protocol: "https"}

	for _, raw := range []string{"/", "/a/b", "http://internal-host/a/b", "https://example.com/a/b?x=1"} {
		once := r.Reconcile(ctx, raw, site)
		assert.Equal(t, once, r.Reconcile(ctx, once, site), "raw %q", raw)
	}
}

func TestResolutionTableIsExhaustive(t *testing.T) {
	for _, server := range []bool{true, false} {
		for _, protocol := range []bool{true, false} {
			for _, hostname := range []bool{true, false} {
				_, ok := resolutionTable[resolutionKey{server, protocol, hostname}]
				assert.True(t, ok, "missing rule for server=%v protocol=%v hostname=%v", server, protocol, hostname)
			}
		}
	}
}

func TestResolveURL(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()
	site := models.Site{
		Name:      "web",
		Hostname:  "example.org",
		Protocol:  "https",
		StartPath: "/sitecore/content/home",
	}

	t.Run("item below the start path", func(t *testing.T) {
		node := models.NewContentNode("About Us", "/sitecore/content/home/About Us")
		assert.Equal(t, "https://example.org/about-us", r.ResolveURL(ctx, node, site))
	})

	t.Run("start item maps to the site root", func(t *testing.T) {
		node := models.NewContentNode("home", "/sitecore/content/home")
		assert.Equal(t, "https://example.org/", r.ResolveURL(ctx, node, site))
	})

	t.Run("explicit link is re-hosted", func(t *testing.T) {
		node := models.NewContentNode("promo", "/sitecore/content/home/promo")
		node.Link = "http://campaigns.internal/promo"
		assert.Equal(t, "https://example.org/promo", r.ResolveURL(ctx, node, site))
	})

	t.Run("node is not modified", func(t *testing.T) {
		node := models.NewContentNode("About Us", "/sitecore/content/home/About Us")
		before := *node
		r.ResolveURL(ctx, node, site)
		assert.Equal(t, before.Path, node.Path)
		assert.Equal(t, before.Link, node.Link)
	})
}

func TestSitemapURL(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	site := models.Site{Name: "web", Hostname: "example.org", Protocol: "https", SitemapFile: "sitemap.xml"}
	assert.Equal(t, "https://example.org/sitemap.xml", r.SitemapURL(ctx, site))

	local := models.Site{Name: "local", SitemapFile: "/maps/sitemap.xml"}
	require.Equal(t, "http://cms.local/maps/sitemap.xml", r.SitemapURL(ctx, local))
}
