package sitemap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/romangod6/sitemap-xml/internal/storage"
)

var (
	// ErrRepositoryUnavailable is returned when the content repository cannot
	// be reached.
	ErrRepositoryUnavailable = errors.New("content repository unavailable")
	// ErrRootNotFound is returned when a site's start path does not resolve.
	ErrRootNotFound = errors.New("root item not found")
)

// ListSeparator splits the enabled-template and excluded-item settings.
const ListSeparator = "|"

// DefaultIdentity is the public identity descendants are enumerated under.
const DefaultIdentity = `extranet\Anonymous`

// IDSet is a set of item or template identifiers.
type IDSet map[uuid.UUID]struct{}

func (s IDSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// ParseIDList splits raw on ListSeparator, drops empty tokens and parses the
// rest as GUIDs (braced or bare). Tokens that are not GUIDs are returned
// separately.
func ParseIDList(raw string) (IDSet, []string) {
	set := make(IDSet)
	var invalid []string
	for _, token := range strings.Split(raw, ListSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := uuid.Parse(token)
		if err != nil {
			invalid = append(invalid, token)
			continue
		}
		set[id] = struct{}{}
	}
	return set, invalid
}

// Selector picks the content nodes that belong in a sitemap.
type Selector struct {
	repo     storage.Repository
	identity string
	logger   *slog.Logger
}

func NewSelector(repo storage.Repository, identity string, logger *slog.Logger) *Selector {
	if identity == "" {
		identity = DefaultIdentity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{repo: repo, identity: identity, logger: logger}
}

// SelectItems returns the root item and its descendants, in that order, that
// have an enabled template and are not excluded. Descendants are read as the
// selector's public identity.
func (s *Selector) SelectItems(ctx context.Context, rootPath string, enabledTemplates, excluded IDSet) ([]*models.ContentNode, error) {
	if s.repo == nil {
		return nil, ErrRepositoryUnavailable
	}
	if err := s.repo.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}

	root, err := s.repo.ItemByPath(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load root item %q: %w", rootPath, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: unable to get access to root item %q", ErrRootNotFound, rootPath)
	}

	descendants, err := s.repo.Descendants(storage.WithIdentity(ctx, s.identity), root)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate descendants of %q: %w", rootPath, err)
	}

	candidates := make([]*models.ContentNode, 0, len(descendants)+1)
	candidates = append(candidates, root)
	candidates = append(candidates, descendants...)

	selected := make([]*models.ContentNode, 0, len(candidates))
	for _, item := range candidates {
		if !item.HasTemplate() || !enabledTemplates.Contains(*item.TemplateID) {
			continue
		}
		if excluded.Contains(item.ID) {
			continue
		}
		selected = append(selected, item)
	}

	s.logger.DebugContext(ctx, "Selected sitemap items",
		slog.String("root", rootPath),
		slog.Int("candidates", len(candidates)),
		slog.Int("selected", len(selected)))

	return selected, nil
}
