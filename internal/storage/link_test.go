package storage

import (
	"testing"

	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestItemURL(t *testing.T) {
	lm := NewLinkManager("http://cms.local/")
	site := &models.Site{Name: "website", StartPath: "/sitecore/content/Home"}

	tests := []struct {
		name string
		node *models.ContentNode
		opts LinkOptions
		want string
	}{
		{
			name: "item below start path",
			node: models.NewContentNode("Our Team", "/sitecore/content/home/About/Our Team"),
			opts: LinkOptions{Site: site, SiteResolving: true},
			want: "/about/our-team",
		},
		{
			name: "start item",
			node: models.NewContentNode("Home", "/sitecore/content/Home"),
			opts: LinkOptions{Site: site, SiteResolving: true},
			want: "/",
		},
		{
			name: "item outside site with site resolving",
			node: models.NewContentNode("Shared", "/sitecore/content/Shared"),
			opts: LinkOptions{Site: site, SiteResolving: true},
			want: "http://cms.local/sitecore/content/shared",
		},
		{
			name: "item outside site without site resolving",
			node: models.NewContentNode("Shared", "/sitecore/content/Shared"),
			opts: LinkOptions{Site: site},
			want: "/sitecore/content/shared",
		},
		{
			name: "sibling sharing the start path prefix is outside the site",
			node: models.NewContentNode("Homepage", "/sitecore/content/Homepage"),
			opts: LinkOptions{Site: site},
			want: "/sitecore/content/homepage",
		},
		{
			name: "server url forced",
			node: models.NewContentNode("News", "/sitecore/content/Home/News"),
			opts: LinkOptions{Site: site, AlwaysIncludeServerURL: true},
			want: "http://cms.local/news",
		},
		{
			name: "explicit link wins",
			node: &models.ContentNode{Name: "promo", Path: "/sitecore/content/Home/promo", Link: "https://campaign.example/promo"},
			opts: LinkOptions{Site: site, AlwaysIncludeServerURL: true},
			want: "https://campaign.example/promo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lm.ItemURL(tt.node, tt.opts))
		})
	}
}

func TestFullURL(t *testing.T) {
	assert.Equal(t, "http://localhost/a/b", NewLinkManager("").FullURL("/a/b"))
	assert.Equal(t, "http://cms.local/a", NewLinkManager("http://cms.local").FullURL("a"))
	assert.Equal(t, "https://x.example/a", NewLinkManager("http://cms.local").FullURL("https://x.example/a"))
}
