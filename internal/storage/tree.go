package storage

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml/internal/models"
)

// orderDescendants arranges the rows below root into pre-order and applies
// the identity carried by ctx.
func orderDescendants(ctx context.Context, root *models.ContentNode, rows []*models.ContentNode) []*models.ContentNode {
	children := make(map[uuid.UUID][]*models.ContentNode)
	for _, n := range rows {
		if n.ParentID == nil {
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}
	for _, list := range children {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].SortOrder != list[j].SortOrder {
				return list[i].SortOrder < list[j].SortOrder
			}
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}

	identity, restricted := IdentityFrom(ctx)

	var out []*models.ContentNode
	var walk func(id uuid.UUID)
	walk = func(id uuid.UUID) {
		for _, child := range children[id] {
			if restricted && !child.ReadableBy(identity) {
				continue
			}
			out = append(out, child)
			walk(child.ID)
		}
	}
	walk(root.ID)
	return out
}

// descendantPattern is the LIKE pattern matching every path below root.
func descendantPattern(root *models.ContentNode) string {
	return strings.TrimSuffix(root.Path, "/") + "/%"
}
