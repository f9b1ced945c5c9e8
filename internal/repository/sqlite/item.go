package sqlite

import (
	"context"
	"database/sql"
	"time"

	"farsiflash/internal/domain"

	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, prompt, translation, transliteration, level, active, created_at`

type itemRow struct {
	ID              int64     `db:"id"`
	Prompt          string    `db:"prompt"`
	Translation     string    `db:"translation"`
	Transliteration string    `db:"transliteration"`
	Level           int       `db:"level"`
	Active          bool      `db:"active"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r itemRow) toDomain() domain.Item {
	return domain.Item{
		ID:              r.ID,
		Prompt:          r.Prompt,
		Translation:     r.Translation,
		Transliteration: r.Transliteration,
		Level:           r.Level,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
	}
}

func toItems(rows []itemRow) []domain.Item {
	if len(rows) == 0 {
		return nil
	}
	items := make([]domain.Item, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items
}

// ItemRepo implements repository.ItemRepository on SQLite
type ItemRepo struct {
	db *sqlx.DB
}

// NewItemRepo creates a new item repository
func NewItemRepo(db *sqlx.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// FindItemsByLevel returns items of one level, optionally only active ones
func (r *ItemRepo) FindItemsByLevel(ctx context.Context, level int, activeOnly bool) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE level = ? AND (active = TRUE OR ? = FALSE) ORDER BY id`
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, level, activeOnly); err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// FindItems returns all active items not listed in excludeIDs
func (r *ItemRepo) FindItems(ctx context.Context, excludeIDs []int64) ([]domain.Item, error) {
	var rows []itemRow
	if len(excludeIDs) == 0 {
		query := `SELECT ` + itemColumns + ` FROM items WHERE active = TRUE ORDER BY id`
		if err := r.db.SelectContext(ctx, &rows, query); err != nil {
			return nil, err
		}
		return toItems(rows), nil
	}

	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM items WHERE active = TRUE AND id NOT IN (?) ORDER BY id`, excludeIDs)
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// FindItemsByIDs returns the active items among ids
func (r *ItemRepo) FindItemsByIDs(ctx context.Context, ids []int64) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM items WHERE active = TRUE AND id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// GetItem returns an item by id, or nil if it doesn't exist
func (r *ItemRepo) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item := row.toDomain()
	return &item, nil
}

// UpsertItem inserts an item or updates the existing one with the same prompt and translation
func (r *ItemRepo) UpsertItem(ctx context.Context, item *domain.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (prompt, translation, transliteration, level, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (prompt, translation)
		DO UPDATE SET
			transliteration = excluded.transliteration,
			level = excluded.level,
			active = excluded.active
	`, item.Prompt, item.Translation, item.Transliteration, item.Level, item.Active)
	if err != nil {
		return err
	}

	var row itemRow
	err = r.db.GetContext(ctx, &row,
		`SELECT `+itemColumns+` FROM items WHERE prompt = ? AND translation = ?`,
		item.Prompt, item.Translation)
	if err != nil {
		return err
	}
	item.ID = row.ID
	item.CreatedAt = row.CreatedAt
	return nil
}
