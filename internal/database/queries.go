package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-while/go-pugtodo/internal/models"
	"github.com/google/uuid"
)

// --- Item Queries ---

// List returns all items in insertion order
const query_ListItems = `SELECT id, text FROM items ORDER BY rowid ASC`

func (s *SQLiteStore) List(ctx context.Context) ([]*models.Item, error) {
	rows, err := s.mainDB.QueryContext(ctx, query_ListItems)
	if err != nil {
		return nil, classifySQLiteError("list", fmt.Errorf("failed to query items: %w", err))
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Text); err != nil {
			return nil, classifySQLiteError("list", fmt.Errorf("failed to scan item row: %w", err))
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQLiteError("list", fmt.Errorf("error iterating item rows: %w", err))
	}
	return items, nil
}

// Get returns the item with id, or nil when there is none
const query_GetItem = `SELECT id, text FROM items WHERE id = ?`

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Item, error) {
	key, err := parseItemID("get", id)
	if err != nil {
		return nil, err
	}
	var item models.Item
	err = s.mainDB.QueryRowContext(ctx, query_GetItem, key).Scan(&item.ID, &item.Text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifySQLiteError("get", fmt.Errorf("failed to get item %s: %w", key, err))
	}
	return &item, nil
}

// Create inserts a new item with a fresh id
const query_CreateItem = `INSERT INTO items (id, text) VALUES (?, ?)`

func (s *SQLiteStore) Create(ctx context.Context, text string) (*models.Item, error) {
	text, err := models.ValidateText("create", text)
	if err != nil {
		return nil, err
	}
	item := &models.Item{ID: uuid.NewString(), Text: text}
	if _, err := s.mainDB.ExecContext(ctx, query_CreateItem, item.ID, item.Text); err != nil {
		return nil, classifySQLiteError("create", fmt.Errorf("failed to create item: %w", err))
	}
	return item, nil
}

// Update replaces the text of the item with id
const query_UpdateItem = `UPDATE items SET text = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (s *SQLiteStore) Update(ctx context.Context, id, text string) error {
	key, err := parseItemID("update", id)
	if err != nil {
		return err
	}
	text, err = models.ValidateText("update", text)
	if err != nil {
		return err
	}
	if _, err := s.mainDB.ExecContext(ctx, query_UpdateItem, text, key); err != nil {
		return classifySQLiteError("update", fmt.Errorf("failed to update item %s: %w", key, err))
	}
	return nil
}

// Delete removes the item with id
const query_DeleteItem = `DELETE FROM items WHERE id = ?`

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	key, err := parseItemID("delete", id)
	if err != nil {
		return err
	}
	if _, err := s.mainDB.ExecContext(ctx, query_DeleteItem, key); err != nil {
		return classifySQLiteError("delete", fmt.Errorf("failed to delete item %s: %w", key, err))
	}
	return nil
}

// parseItemID checks that id is a UUID and returns its canonical form
func parseItemID(op, id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", &models.Error{Kind: models.KindInvalidID, Op: op, Err: fmt.Errorf("invalid item id %q: %w", id, err)}
	}
	return parsed.String(), nil
}
