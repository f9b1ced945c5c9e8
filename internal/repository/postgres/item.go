package postgres

import (
	"context"
	"database/sql"

	"farsiflash/internal/domain"

	"github.com/lib/pq"
)

const itemColumns = `id, prompt, translation, transliteration, level, active, created_at`

// ItemRepo implements repository.ItemRepository
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo creates a new item repository
func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// FindItemsByLevel returns items of one level, optionally only active ones
func (r *ItemRepo) FindItemsByLevel(ctx context.Context, level int, activeOnly bool) ([]domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE level = $1 AND (active = TRUE OR $2 = FALSE)
		ORDER BY id
	`
	return r.query(ctx, query, level, activeOnly)
}

// FindItems returns all active items not listed in excludeIDs
func (r *ItemRepo) FindItems(ctx context.Context, excludeIDs []int64) ([]domain.Item, error) {
	if excludeIDs == nil {
		// pq encodes a nil slice as NULL, and NOT (id = ANY(NULL)) matches nothing
		excludeIDs = []int64{}
	}
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active = TRUE AND NOT (id = ANY($1))
		ORDER BY id
	`
	return r.query(ctx, query, pq.Array(excludeIDs))
}

// FindItemsByIDs returns the active items among ids
func (r *ItemRepo) FindItemsByIDs(ctx context.Context, ids []int64) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active = TRUE AND id = ANY($1)
	`
	return r.query(ctx, query, pq.Array(ids))
}

// GetItem returns an item by id, or nil if it doesn't exist
func (r *ItemRepo) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// UpsertItem inserts an item or updates the existing one with the same prompt and translation
func (r *ItemRepo) UpsertItem(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (prompt, translation, transliteration, level, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (prompt, translation)
		DO UPDATE SET
			transliteration = EXCLUDED.transliteration,
			level = EXCLUDED.level,
			active = EXCLUDED.active
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		item.Prompt, item.Translation, item.Transliteration, item.Level, item.Active,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *ItemRepo) query(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}

	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*domain.Item, error) {
	var it domain.Item
	if err := s.Scan(&it.ID, &it.Prompt, &it.Translation, &it.Transliteration, &it.Level, &it.Active, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
