package models

import "fmt"

// SiteRegistry is the ordered set of sites for a run. It is built once and
// never modified afterwards.
type SiteRegistry struct {
	sites []Site
}

// NewSiteRegistry copies sites into a registry, rejecting duplicate names.
func NewSiteRegistry(sites []Site) (SiteRegistry, error) {
	seen := make(map[string]struct{}, len(sites))
	copied := make([]Site, 0, len(sites))
	for _, s := range sites {
		if _, dup := seen[s.Name]; dup {
			return SiteRegistry{}, fmt.Errorf("duplicate site %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		copied = append(copied, s)
	}
	return SiteRegistry{sites: copied}, nil
}

// Sites returns the sites in registry order.
func (r SiteRegistry) Sites() []Site {
	out := make([]Site, len(r.sites))
	copy(out, r.sites)
	return out
}

// Len returns the number of sites.
func (r SiteRegistry) Len() int { return len(r.sites) }

// Lookup finds a site by name.
func (r SiteRegistry) Lookup(name string) (Site, bool) {
	for _, s := range r.sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

// SitemapPaths maps site name to its configured sitemap file.
func (r SiteRegistry) SitemapPaths() map[string]string {
	paths := make(map[string]string, len(r.sites))
	for _, s := range r.sites {
		paths[s.Name] = s.SitemapFile
	}
	return paths
}
