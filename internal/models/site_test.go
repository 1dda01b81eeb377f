package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteRegistry(t *testing.T) {
	sites := []Site{
		{Name: "website", SitemapFile: "sitemap.xml"},
		{Name: "shop", SitemapFile: "shop/sitemap.xml"},
	}
	registry, err := NewSiteRegistry(sites)
	require.NoError(t, err)

	sites[0].Name = "mutated"
	got := registry.Sites()
	assert.Equal(t, "website", got[0].Name, "registry must not alias its input")

	got[1].Name = "mutated"
	assert.Equal(t, "shop", registry.Sites()[1].Name, "registry must not alias its output")

	assert.Equal(t, 2, registry.Len())
	shop, ok := registry.Lookup("shop")
	assert.True(t, ok)
	assert.Equal(t, "shop/sitemap.xml", shop.SitemapFile)
	_, ok = registry.Lookup("missing")
	assert.False(t, ok)

	_, err = NewSiteRegistry([]Site{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)
}

func TestContentNodeReadableBy(t *testing.T) {
	node := NewContentNode("home", "/sitecore/content/home")
	assert.True(t, node.ReadableBy(`extranet\Anonymous`))

	node.ReadRoles = []string{`sitecore\Editors`}
	assert.False(t, node.ReadableBy(`extranet\Anonymous`))
	assert.True(t, node.ReadableBy(`sitecore\Editors`))

	node.ReadRoles = append(node.ReadRoles, EveryoneRole)
	assert.True(t, node.ReadableBy(`extranet\Anonymous`))
}

func TestContentNodeFields(t *testing.T) {
	node := &ContentNode{}
	assert.Equal(t, "", node.Field("Title"))
	assert.False(t, node.HasTemplate())
	assert.True(t, node.IsRoot())
}
