package repository

import (
	"context"

	"farsiflash/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AuthorizeUser(ctx context.Context, userID int64) error
	EnsureUserExists(ctx context.Context, userID int64) error
	GetLevel(ctx context.Context, userID int64) (int, error)
	SetLevel(ctx context.Context, userID int64, level int) error
	ListAuthorized(ctx context.Context) ([]int64, error)
}

// ItemRepository defines read access to the vocabulary catalog
// plus the upsert used by seeding tools
type ItemRepository interface {
	// FindItemsByLevel returns items of one difficulty tier
	FindItemsByLevel(ctx context.Context, level int, activeOnly bool) ([]domain.Item, error)
	// FindItems returns all active items except excludeIDs
	FindItems(ctx context.Context, excludeIDs []int64) ([]domain.Item, error)
	// FindItemsByIDs returns active items with the given ids, in no particular order
	FindItemsByIDs(ctx context.Context, ids []int64) ([]domain.Item, error)
	// GetItem returns nil if the item does not exist
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	// UpsertItem inserts or updates an item keyed by (prompt, translation)
	UpsertItem(ctx context.Context, item *domain.Item) error
}

// ProgressRepository defines per-user, per-item progress operations
type ProgressRepository interface {
	// FindProgress returns nil if the user has never reviewed the item
	FindProgress(ctx context.Context, userID, itemID int64) (*domain.Progress, error)
	ListProgress(ctx context.Context, userID int64) ([]domain.Progress, error)
	// SaveProgress upserts p keyed by (UserID, ItemID)
	SaveProgress(ctx context.Context, p *domain.Progress) error
	// UpdateProgress atomically reads the record, applies fn and writes the result.
	// Returns domain.ErrConcurrentUpdate if the record kept changing underneath.
	UpdateProgress(ctx context.Context, userID, itemID int64, fn domain.ProgressMutator) (*domain.Progress, error)
}
