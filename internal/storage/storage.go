package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml/internal/models"
)

// Repository is the content tree the sitemap is built from. Lookups return
// (nil, nil) when nothing matches.
type Repository interface {
	Initialize() error
	Close() error
	Ping(ctx context.Context) error

	ItemByPath(ctx context.Context, path string) (*models.ContentNode, error)
	ItemByID(ctx context.Context, id uuid.UUID) (*models.ContentNode, error)

	// Descendants returns every node below root in pre-order, siblings by
	// sort order then name. When ctx carries an identity, nodes that
	// identity cannot read are left out together with their subtrees.
	Descendants(ctx context.Context, root *models.ContentNode) ([]*models.ContentNode, error)

	SaveItem(ctx context.Context, node *models.ContentNode) error
}

type identityKey struct{}

// WithIdentity scopes the repository calls made with the returned context to
// identity. The parent context is left untouched.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity carried by ctx, if any.
func IdentityFrom(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey{}).(string)
	return identity, ok && identity != ""
}
