package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/romangod6/sitemap-xml/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS items (
            id UUID PRIMARY KEY,
            parent_id UUID REFERENCES items(id),
            name VARCHAR(255) NOT NULL,
            path VARCHAR(2048) UNIQUE NOT NULL,
            template_id UUID,
            link VARCHAR(2048),
            read_roles TEXT[],
            fields JSONB,
            sort_order INTEGER NOT NULL DEFAULT 0,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_items_parent_id ON items(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_path_lower ON items(LOWER(path))`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) SaveItem(ctx context.Context, node *models.ContentNode) error {
	query := `
        INSERT INTO items (id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            parent_id = EXCLUDED.parent_id,
            name = EXCLUDED.name,
            path = EXCLUDED.path,
            template_id = EXCLUDED.template_id,
            link = EXCLUDED.link,
            read_roles = EXCLUDED.read_roles,
            fields = EXCLUDED.fields,
            sort_order = EXCLUDED.sort_order,
            updated_at = EXCLUDED.updated_at
    `

	fieldsJSON, err := json.Marshal(node.Fields)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		node.ID,
		nilIfEmpty(node.ParentID),
		node.Name,
		node.Path,
		nilIfEmpty(node.TemplateID),
		node.Link,
		pq.Array(node.ReadRoles),
		fieldsJSON,
		node.SortOrder,
		node.Updated,
	)

	return err
}

func (s *PostgresStore) ItemByPath(ctx context.Context, path string) (*models.ContentNode, error) {
	query := `
        SELECT id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at
        FROM items
        WHERE LOWER(path) = LOWER($1)
    `

	return s.queryItem(ctx, query, path)
}

func (s *PostgresStore) ItemByID(ctx context.Context, id uuid.UUID) (*models.ContentNode, error) {
	query := `
        SELECT id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at
        FROM items
        WHERE id = $1
    `

	return s.queryItem(ctx, query, id)
}

func (s *PostgresStore) Descendants(ctx context.Context, root *models.ContentNode) ([]*models.ContentNode, error) {
	query := `
        WITH RECURSIVE tree AS (
            SELECT id FROM items WHERE parent_id = $1
            UNION ALL
            SELECT i.id FROM items i JOIN tree t ON i.parent_id = t.id
        )
        SELECT id, parent_id, name, path, template_id, link, read_roles, fields, sort_order, updated_at
        FROM items
        WHERE id IN (SELECT id FROM tree)
    `

	rows, err := s.db.QueryContext(ctx, query, root.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ContentNode
	for rows.Next() {
		item, err := scanPostgresItem(rows)
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

func (s *PostgresStore) queryItem(ctx context.Context, query string, args ...interface{}) (*models.ContentNode, error) {
	item, err := scanPostgresItem(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanPostgresItem(row rowScanner) (*models.ContentNode, error) {
	var (
		item                    models.ContentNode
		parentIDStr, templateID sql.NullString
		link                    sql.NullString
		fieldsJSON              []byte
	)

	err := row.Scan(
		&item.ID,
		&parentIDStr,
		&item.Name,
		&item.Path,
		&templateID,
		&link,
		pq.Array(&item.ReadRoles),
		&fieldsJSON,
		&item.SortOrder,
		&item.Updated,
	)
	if err != nil {
		return nil, err
	}

	item.ParentID = parseNullUUID(parentIDStr)
	item.TemplateID = parseNullUUID(templateID)
	item.Link = link.String

	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &item.Fields); err != nil {
			return nil, fmt.Errorf("item %s: fields: %w", item.Path, err)
		}
	}

	return &item, nil
}
