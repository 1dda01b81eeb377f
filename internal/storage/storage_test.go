package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func child(parent *models.ContentNode, name string, sort int) *models.ContentNode {
	path := "/" + name
	if parent != nil {
		path = parent.Path + "/" + name
	}
	n := models.NewContentNode(name, path)
	n.SortOrder = sort
	n.Updated = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	if parent != nil {
		id := parent.ID
		n.ParentID = &id
	}
	return n
}

// seedTree saves:
//
//	/home
//	  Zeta (0)
//	  alpha (0)
//	    deep (0)
//	  members (1, editors only)
//	    profile (0)
//	  beta (2)
//	/other
//	  stray (0)
func seedTree(t *testing.T, repo Repository) (*models.ContentNode, []string) {
	t.Helper()
	ctx := context.Background()

	home := child(nil, "home", 0)
	zeta := child(home, "Zeta", 0)
	alpha := child(home, "alpha", 0)
	deep := child(alpha, "deep", 0)
	members := child(home, "members", 1)
	members.ReadRoles = []string{`sitecore\Editors`}
	profile := child(members, "profile", 0)
	beta := child(home, "beta", 2)
	other := child(nil, "other", 0)
	stray := child(other, "stray", 0)

	for _, n := range []*models.ContentNode{home, zeta, alpha, deep, members, profile, beta, other, stray} {
		require.NoError(t, repo.SaveItem(ctx, n))
	}
	return home, []string{"alpha", "deep", "Zeta", "members", "profile", "beta"}
}

func names(nodes []*models.ContentNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func without(list []string, drop ...string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		keep := true
		for _, d := range drop {
			if s == d {
				keep = false
			}
		}
		if keep {
			out = append(out, s)
		}
	}
	return out
}

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })
	return store
}

func repositories(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"memory": NewMemoryStore(),
		"sqlite": openSQLite(t),
	}
}

func TestRepositoryDescendants(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			home, order := seedTree(t, repo)
			ctx := context.Background()

			all, err := repo.Descendants(ctx, home)
			require.NoError(t, err)
			assert.Equal(t, order, names(all))

			anon, err := repo.Descendants(WithIdentity(ctx, `extranet\Anonymous`), home)
			require.NoError(t, err)
			assert.Equal(t, without(order, "members", "profile"), names(anon))

			editor, err := repo.Descendants(WithIdentity(ctx, `sitecore\Editors`), home)
			require.NoError(t, err)
			assert.Equal(t, order, names(editor))
		})
	}
}

func TestRepositoryLookups(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tpl := uuid.New()

			node := child(nil, "home", 3)
			node.TemplateID = &tpl
			node.Link = "https://example.org/landing"
			node.ReadRoles = []string{"everyone"}
			node.Fields["Title"] = "Home"
			require.NoError(t, repo.SaveItem(ctx, node))

			byPath, err := repo.ItemByPath(ctx, "/HOME")
			require.NoError(t, err)
			require.NotNil(t, byPath)
			assert.Equal(t, node.ID, byPath.ID)
			assert.Nil(t, byPath.ParentID)
			require.NotNil(t, byPath.TemplateID)
			assert.Equal(t, tpl, *byPath.TemplateID)
			assert.Equal(t, "https://example.org/landing", byPath.Link)
			assert.Equal(t, []string{"everyone"}, byPath.ReadRoles)
			assert.Equal(t, "Home", byPath.Field("Title"))
			assert.Equal(t, 3, byPath.SortOrder)
			assert.True(t, node.Updated.Equal(byPath.Updated), "updated %s != %s", node.Updated, byPath.Updated)

			byID, err := repo.ItemByID(ctx, node.ID)
			require.NoError(t, err)
			require.NotNil(t, byID)
			assert.Equal(t, "/home", byID.Path)

			missing, err := repo.ItemByPath(ctx, "/missing")
			require.NoError(t, err)
			assert.Nil(t, missing)

			missing, err = repo.ItemByID(ctx, uuid.New())
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}

func TestRepositorySaveItemUpdates(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			node := child(nil, "home", 0)
			require.NoError(t, repo.SaveItem(ctx, node))

			node.Fields["Title"] = "Updated"
			node.Updated = node.Updated.Add(time.Hour)
			require.NoError(t, repo.SaveItem(ctx, node))

			got, err := repo.ItemByID(ctx, node.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Updated", got.Field("Title"))
			assert.True(t, node.Updated.Equal(got.Updated))
		})
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore()
	node := child(nil, "home", 0)
	require.NoError(t, repo.SaveItem(ctx, node))

	node.Name = "changed"
	got, err := repo.ItemByID(ctx, node.ID)
	require.NoError(t, err)
	assert.Equal(t, "home", got.Name)
}

func TestIdentityScope(t *testing.T) {
	ctx := context.Background()
	_, ok := IdentityFrom(ctx)
	assert.False(t, ok)

	scoped := WithIdentity(ctx, `extranet\Anonymous`)
	identity, ok := IdentityFrom(scoped)
	assert.True(t, ok)
	assert.Equal(t, `extranet\Anonymous`, identity)

	_, ok = IdentityFrom(ctx)
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	repo, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, repo)

	repo, err = Open("sqlite", filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	defer repo.Close()
	assert.NoError(t, repo.Ping(context.Background()))

	_, err = Open("oracle", "")
	assert.Error(t, err)
}
