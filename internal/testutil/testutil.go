package testutil

import (
	"time"

	"farsiflash/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		Level:      domain.MinLevel,
		CreatedAt:  time.Now(),
	}
}

// NewTestItem creates an active test item
func NewTestItem(id int64, level int) domain.Item {
	return domain.Item{
		ID:          id,
		Prompt:      "prompt",
		Translation: "translation",
		Level:       level,
		Active:      true,
		CreatedAt:   time.Now(),
	}
}

// NewTestItems creates active test items with the given ids
func NewTestItems(level int, ids ...int64) []domain.Item {
	items := make([]domain.Item, len(ids))
	for i, id := range ids {
		items[i] = NewTestItem(id, level)
	}
	return items
}

// NewTestProgress creates a progress record due at next
func NewTestProgress(userID, itemID int64, next time.Time) domain.Progress {
	return domain.Progress{
		UserID:         userID,
		ItemID:         itemID,
		EaseFactor:     2.5,
		NextReviewDate: next,
		LastReviewedAt: next.Add(-24 * time.Hour),
		UpdatedAt:      next.Add(-24 * time.Hour),
		Version:        1,
	}
}

// NewFailedProgress creates a progress record with a wrong streak, due at next
func NewFailedProgress(userID, itemID int64, next time.Time) domain.Progress {
	p := NewTestProgress(userID, itemID, next)
	p.LastAssessment = domain.AssessmentAgain
	p.ConsecutiveWrong = 1
	p.TotalWrong = 1
	return p
}
