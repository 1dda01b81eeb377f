// internal/models/sitemap.go
package models

import "encoding/xml"

// DefaultSitemapXMLNS is the sitemap protocol namespace.
const DefaultSitemapXMLNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap represents the structure of an XML sitemap.
type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}
