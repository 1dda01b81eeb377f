package models

import (
	"time"

	"github.com/google/uuid"
)

// NewContentNode creates a node with a generated ID and the current time as
// its last modification.
func NewContentNode(name, path string) *ContentNode {
	return &ContentNode{
		ID:      uuid.New(),
		Name:    name,
		Path:    path,
		Fields:  make(map[string]string),
		Updated: time.Now(),
	}
}

// HasTemplate reports whether the node carries a template.
func (n *ContentNode) HasTemplate() bool {
	return n.TemplateID != nil
}

// IsRoot returns true if the node has no parent
func (n *ContentNode) IsRoot() bool {
	return n.ParentID == nil
}

// Field returns a named field value, or "" when unset.
func (n *ContentNode) Field(name string) string {
	if n.Fields == nil {
		return ""
	}
	return n.Fields[name]
}

// ReadableBy reports whether identity may read this node. A node without
// read roles is public.
func (n *ContentNode) ReadableBy(identity string) bool {
	if len(n.ReadRoles) == 0 {
		return true
	}
	for _, role := range n.ReadRoles {
		if role == identity || role == EveryoneRole {
			return true
		}
	}
	return false
}

// EveryoneRole grants read access to every identity.
const EveryoneRole = "everyone"
