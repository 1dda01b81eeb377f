package models

import (
	"time"

	"github.com/google/uuid"
)

// Site is one configured website sharing a subtree of the content tree.
type Site struct {
	Name        string `json:"name"`
	Hostname    string `json:"hostname,omitempty"`
	ServerURL   string `json:"serverUrl,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
	SitemapFile string `json:"sitemapFile"`
	StartPath   string `json:"startPath"`
}

// ContentNode is an item read from the content repository.
type ContentNode struct {
	ID         uuid.UUID         `json:"id"`
	ParentID   *uuid.UUID        `json:"parent_id,omitempty"`
	Name       string            `json:"name"`
	Path       string            `json:"path"`
	TemplateID *uuid.UUID        `json:"template_id,omitempty"`
	Link       string            `json:"link,omitempty"`
	ReadRoles  []string          `json:"read_roles,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	SortOrder  int               `json:"sort_order"`
	Updated    time.Time         `json:"updated"`
}

// SitemapEntry is one resolved URL of a site's sitemap.
type SitemapEntry struct {
	Loc          string    `json:"loc"`
	LastModified time.Time `json:"lastModified"`
}
