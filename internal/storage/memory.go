package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml/internal/models"
)

// MemoryStore is an in-memory Repository, used for tests and the "memory"
// database driver.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.ContentNode

	// PingErr, when set, is returned by Ping.
	PingErr error

	calls MemoryCalls
}

// MemoryCalls tracks method invocations for test verification.
type MemoryCalls struct {
	Descendants int
	// Identities holds the identity seen by each Descendants call, "" when
	// the call was unrestricted.
	Identities []string
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[uuid.UUID]*models.ContentNode),
	}
}

func (m *MemoryStore) Initialize() error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MemoryStore) SaveItem(ctx context.Context, node *models.ContentNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *node
	m.items[node.ID] = &copied
	return nil
}

func (m *MemoryStore) ItemByPath(ctx context.Context, path string) (*models.ContentNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if strings.EqualFold(item.Path, path) {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ItemByID(ctx context.Context, id uuid.UUID) (*models.ContentNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (m *MemoryStore) Descendants(ctx context.Context, root *models.ContentNode) ([]*models.ContentNode, error) {
	m.mu.Lock()
	identity, _ := IdentityFrom(ctx)
	m.calls.Descendants++
	m.calls.Identities = append(m.calls.Identities, identity)

	rows := make([]*models.ContentNode, 0, len(m.items))
	for _, item := range m.items {
		copied := *item
		rows = append(rows, &copied)
	}
	m.mu.Unlock()

	return orderDescendants(ctx, root, rows), nil
}

// Calls returns a snapshot of the recorded invocations.
func (m *MemoryStore) Calls() MemoryCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := m.calls
	calls.Identities = append([]string(nil), m.calls.Identities...)
	return calls
}
