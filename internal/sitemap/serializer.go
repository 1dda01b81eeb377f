package sitemap

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/romangod6/sitemap-xml/internal/models"
)

// LastModLayout formats lastmod values with a numeric UTC offset.
const LastModLayout = "2006-01-02T15:04:05-07:00"

// BuildDocument renders entries, in order, as a sitemap urlset. An empty
// entry list yields an empty urlset.
func BuildDocument(entries []models.SitemapEntry, xmlns string) ([]byte, error) {
	if xmlns == "" {
		xmlns = models.DefaultSitemapXMLNS
	}

	doc := models.Sitemap{
		XMLNS: xmlns,
		URLs:  make([]models.URL, 0, len(entries)),
	}
	for _, e := range entries {
		doc.URLs = append(doc.URLs, models.URL{
			Loc:     e.Loc,
			LastMod: e.LastModified.Format(LastModLayout),
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// WriteDocument replaces the file at path with data.
func WriteDocument(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create sitemap directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sitemap %s: %w", path, err)
	}
	return nil
}
