package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml/internal/models"
	"gopkg.in/yaml.v3"
)

// Fixture is a YAML description of a content tree.
type Fixture struct {
	Items []FixtureItem `yaml:"items"`
}

// FixtureItem is one node of a fixture tree. Paths are derived from the
// nesting of names.
type FixtureItem struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Template  string            `yaml:"template"`
	Link      string            `yaml:"link"`
	ReadRoles []string          `yaml:"readRoles"`
	Fields    map[string]string `yaml:"fields"`
	Sort      int               `yaml:"sort"`
	Updated   time.Time         `yaml:"updated"`
	Children  []FixtureItem     `yaml:"children"`
}

// LoadFixture decodes a YAML fixture from r and saves every item into repo.
// It returns the number of items saved.
func LoadFixture(ctx context.Context, repo Repository, r io.Reader) (int, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return 0, fmt.Errorf("failed to decode fixture: %w", err)
	}

	count := 0
	var save func(items []FixtureItem, parent *models.ContentNode) error
	save = func(items []FixtureItem, parent *models.ContentNode) error {
		for _, fi := range items {
			node, err := fi.toNode(parent)
			if err != nil {
				return err
			}
			if err := repo.SaveItem(ctx, node); err != nil {
				return fmt.Errorf("failed to save item %s: %w", node.Path, err)
			}
			count++
			if err := save(fi.Children, node); err != nil {
				return err
			}
		}
		return nil
	}

	if err := save(fx.Items, nil); err != nil {
		return count, err
	}
	return count, nil
}

func (fi FixtureItem) toNode(parent *models.ContentNode) (*models.ContentNode, error) {
	if fi.Name == "" {
		return nil, fmt.Errorf("fixture item without name")
	}

	path := "/" + fi.Name
	if parent != nil {
		path = parent.Path + "/" + fi.Name
	}

	node := models.NewContentNode(fi.Name, path)
	if fi.ID != "" {
		id, err := uuid.Parse(fi.ID)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid id %q: %w", path, fi.ID, err)
		}
		node.ID = id
	}
	if fi.Template != "" {
		tpl, err := uuid.Parse(fi.Template)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid template %q: %w", path, fi.Template, err)
		}
		node.TemplateID = &tpl
	}
	if parent != nil {
		parentID := parent.ID
		node.ParentID = &parentID
	}
	if !fi.Updated.IsZero() {
		node.Updated = fi.Updated
	}
	node.Link = fi.Link
	node.ReadRoles = fi.ReadRoles
	node.SortOrder = fi.Sort
	for k, v := range fi.Fields {
		node.Fields[k] = v
	}

	return node, nil
}
