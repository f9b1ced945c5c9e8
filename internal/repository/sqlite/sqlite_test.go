package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"farsiflash/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedItems(t *testing.T, repo *ItemRepo, items ...domain.Item) []domain.Item {
	t.Helper()
	for i := range items {
		require.NoError(t, repo.UpsertItem(context.Background(), &items[i]))
	}
	return items
}

func TestOpen_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, initializeSchema(db))
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))

	authorized, err := repo.IsAuthorized(ctx, 42)
	require.NoError(t, err)
	assert.False(t, authorized)

	level, err := repo.GetLevel(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, level)

	require.NoError(t, repo.EnsureUserExists(ctx, 42))
	require.NoError(t, repo.EnsureUserExists(ctx, 42))
	require.NoError(t, repo.AuthorizeUser(ctx, 42))
	require.NoError(t, repo.SetLevel(ctx, 42, 3))
	require.NoError(t, repo.EnsureUserExists(ctx, 7))

	authorized, err = repo.IsAuthorized(ctx, 42)
	require.NoError(t, err)
	assert.True(t, authorized)

	level, err = repo.GetLevel(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 3, level)

	ids, err := repo.ListAuthorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, ids)

	assert.Error(t, repo.SetLevel(ctx, 42, 9), "level outside 1..5 violates the check constraint")
}

func TestItemRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepo(openTestDB(t))

	items := seedItems(t, repo,
		domain.Item{Prompt: "کتاب", Translation: "book", Level: 1, Active: true},
		domain.Item{Prompt: "آب", Translation: "water", Level: 1, Active: true},
		domain.Item{Prompt: "قدیمی", Translation: "old", Level: 1, Active: false},
		domain.Item{Prompt: "دانشگاه", Translation: "university", Level: 3, Active: true},
	)

	t.Run("by level", func(t *testing.T) {
		active, err := repo.FindItemsByLevel(ctx, 1, true)
		require.NoError(t, err)
		assert.Equal(t, []int64{items[0].ID, items[1].ID}, domain.ItemIDs(active))

		all, err := repo.FindItemsByLevel(ctx, 1, false)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("excluding ids", func(t *testing.T) {
		rest, err := repo.FindItems(ctx, []int64{items[0].ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{items[1].ID, items[3].ID}, domain.ItemIDs(rest))

		all, err := repo.FindItems(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("by ids skips inactive", func(t *testing.T) {
		found, err := repo.FindItemsByIDs(ctx, []int64{items[1].ID, items[2].ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{items[1].ID}, domain.ItemIDs(found))
	})

	t.Run("get", func(t *testing.T) {
		item, err := repo.GetItem(ctx, items[3].ID)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "university", item.Translation)
		assert.False(t, item.CreatedAt.IsZero())

		missing, err := repo.GetItem(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("upsert keeps id", func(t *testing.T) {
		updated := domain.Item{Prompt: "کتاب", Translation: "book", Transliteration: "ketâb", Level: 2, Active: true}
		require.NoError(t, repo.UpsertItem(ctx, &updated))
		assert.Equal(t, items[0].ID, updated.ID)

		item, err := repo.GetItem(ctx, items[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 2, item.Level)
		assert.Equal(t, "ketâb", item.Transliteration)
	})
}

func TestProgressRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	items := seedItems(t, NewItemRepo(db),
		domain.Item{Prompt: "نان", Translation: "bread", Level: 1, Active: true},
		domain.Item{Prompt: "سیب", Translation: "apple", Level: 1, Active: true},
	)
	repo := NewProgressRepo(db)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	p, err := repo.FindProgress(ctx, 1, items[0].ID)
	require.NoError(t, err)
	assert.Nil(t, p)

	saved := &domain.Progress{
		UserID:         1,
		ItemID:         items[0].ID,
		Repetitions:    1,
		EaseFactor:     2.5,
		IntervalDays:   1,
		NextReviewDate: now.Add(24 * time.Hour),
		LastAssessment: domain.AssessmentGood,
		TotalCorrect:   1,
		Accuracy:       100,
		LastReviewedAt: now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.SaveProgress(ctx, saved))
	assert.Equal(t, 1, saved.Version)

	require.NoError(t, repo.SaveProgress(ctx, saved))
	assert.Equal(t, 2, saved.Version)

	p, err = repo.FindProgress(ctx, 1, items[0].ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, domain.AssessmentGood, p.LastAssessment)
	assert.True(t, p.NextReviewDate.Equal(now.Add(24*time.Hour)))
	assert.True(t, p.LastReviewedAt.Equal(now))
	assert.Equal(t, 2, p.Version)

	updated, err := repo.UpdateProgress(ctx, 1, items[1].ID, func(prior *domain.Progress) (domain.Progress, error) {
		assert.Nil(t, prior)
		return domain.Progress{Repetitions: 0, EaseFactor: 2.3, ConsecutiveWrong: 1, TotalWrong: 1,
			NextReviewDate: now.Add(10 * time.Minute), LastReviewedAt: now, UpdatedAt: now}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	updated, err = repo.UpdateProgress(ctx, 1, items[1].ID, func(prior *domain.Progress) (domain.Progress, error) {
		next := *prior
		next.ConsecutiveWrong++
		return next, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.ConsecutiveWrong)
	assert.Equal(t, 2, updated.Version)

	records, err := repo.ListProgress(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = repo.ListProgress(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProgressRepo_UpdateProgress_Concurrent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	items := seedItems(t, NewItemRepo(db), domain.Item{Prompt: "گل", Translation: "flower", Level: 1, Active: true})
	repo := NewProgressRepo(db)

	const writers = 5
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateProgress(ctx, 1, items[0].ID, func(prior *domain.Progress) (domain.Progress, error) {
				next := domain.Progress{EaseFactor: 2.5}
				if prior != nil {
					next = *prior
				}
				next.TotalCorrect++
				return next, nil
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
			}
		}()
	}
	wg.Wait()

	p, err := repo.FindProgress(ctx, 1, items[0].ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, succeeded, p.TotalCorrect, "every successful update is counted exactly once")
	assert.Equal(t, succeeded, p.Version)
}
