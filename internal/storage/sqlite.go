package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/sitemap-xml/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS items (
            id TEXT PRIMARY KEY,
            parent_id TEXT,
            name TEXT NOT NULL,
            path TEXT UNIQUE NOT NULL,
            template_id TEXT,
            link TEXT,
            read_roles TEXT,
            fields TEXT,
            sort_order INTEGER NOT NULL DEFAULT 0,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(parent_id) REFERENCES items(id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_items_parent_id ON items(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_path ON items(path)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) SaveItem(ctx context.Context, node *models.ContentNode) error {
	query := `
        INSERT INTO items (id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            parent_id = excluded.parent_id,
            name = excluded.name,
            path = excluded.path,
            template_id = excluded.template_id,
            link = excluded.link,
            read_roles = excluded.read_roles,
            fields = excluded.fields,
            sort_order = excluded.sort_order,
            updated_at = excluded.updated_at
    `

	rolesJSON, err := json.Marshal(node.ReadRoles)
	if err != nil {
		return err
	}
	fieldsJSON, err := json.Marshal(node.Fields)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		node.ID.String(),
		nilIfEmpty(node.ParentID),
		node.Name,
		node.Path,
		nilIfEmpty(node.TemplateID),
		node.Link,
		string(rolesJSON),
		string(fieldsJSON),
		node.SortOrder,
		node.Updated.UTC(),
	)

	return err
}

func (s *SQLiteStore) ItemByPath(ctx context.Context, path string) (*models.ContentNode, error) {
	query := `
        SELECT id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at
        FROM items
        WHERE path = ? COLLATE NOCASE
    `

	return s.queryItem(ctx, query, path)
}

func (s *SQLiteStore) ItemByID(ctx context.Context, id uuid.UUID) (*models.ContentNode, error) {
	query := `
        SELECT id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at
        FROM items
        WHERE id = ?
    `

	return s.queryItem(ctx, query, id.String())
}

func (s *SQLiteStore) Descendants(ctx context.Context, root *models.ContentNode) ([]*models.ContentNode, error) {
	query := `
        SELECT id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at
        FROM items
        WHERE path LIKE ?
    `

	rows, err := s.db.QueryContext(ctx, query, descendantPattern(root))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ContentNode
	for rows.Next() {
		item, err := scanSQLiteItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orderDescendants(ctx, root, items), nil
}

func (s *SQLiteStore) queryItem(ctx context.Context, query string, args ...interface{}) (*models.ContentNode, error) {
	item, err := scanSQLiteItem(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteItem(row rowScanner) (*models.ContentNode, error) {
	var (
		item                    models.ContentNode
		idStr                   string
		parentIDStr, templateID sql.NullString
		link, rolesJSON, fields sql.NullString
	)

	err := row.Scan(
		&idStr,
		&parentIDStr,
		&item.Name,
		&item.Path,
		&templateID,
		&link,
		&rolesJSON,
		&fields,
		&item.SortOrder,
		&item.Updated,
	)
	if err != nil {
		return nil, err
	}

	if item.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("item %s: invalid id: %w", item.Path, err)
	}
	item.ParentID = parseNullUUID(parentIDStr)
	item.TemplateID = parseNullUUID(templateID)
	item.Link = link.String

	if rolesJSON.Valid && rolesJSON.String != "" {
		if err := json.Unmarshal([]byte(rolesJSON.String), &item.ReadRoles); err != nil {
			return nil, fmt.Errorf("item %s: read roles: %w", item.Path, err)
		}
	}
	if fields.Valid && fields.String != "" {
		if err := json.Unmarshal([]byte(fields.String), &item.Fields); err != nil {
			return nil, fmt.Errorf("item %s: fields: %w", item.Path, err)
		}
	}

	return &item, nil
}

func parseNullUUID(s sql.NullString) *uuid.UUID {
	if !s.Valid || s.String == "" {
		return nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil
	}
	return &id
}

func nilIfEmpty(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}
