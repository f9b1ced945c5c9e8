package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"farsiflash/internal/domain"
	"farsiflash/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSyncService_Merge(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	newer := testutil.NewTestProgress(0, 1, now.Add(24*time.Hour))
	newer.LastReviewedAt = now
	older := testutil.NewTestProgress(0, 2, now.Add(24*time.Hour))
	older.LastReviewedAt = now.Add(-48 * time.Hour)
	fresh := testutil.NewTestProgress(0, 3, now.Add(24*time.Hour))
	orphan := testutil.NewTestProgress(0, 4, now)

	serverOld := testutil.NewTestProgress(9, 1, now)
	serverOld.LastReviewedAt = now.Add(-time.Hour)
	serverNew := testutil.NewTestProgress(9, 2, now)
	serverNew.LastReviewedAt = now.Add(-time.Hour)

	item := testutil.NewTestItem(1, 1)

	from := new(testutil.MockProgressRepository)
	to := new(testutil.MockProgressRepository)
	items := new(testutil.MockItemRepository)

	from.On("ListProgress", mock.Anything, int64(9)).Return([]domain.Progress{newer, older, fresh, orphan}, nil)
	items.On("GetItem", mock.Anything, int64(1)).Return(&item, nil)
	items.On("GetItem", mock.Anything, int64(2)).Return(&item, nil)
	items.On("GetItem", mock.Anything, int64(3)).Return(&item, nil)
	items.On("GetItem", mock.Anything, int64(4)).Return(nil, nil)
	to.On("FindProgress", mock.Anything, int64(9), int64(1)).Return(&serverOld, nil)
	to.On("FindProgress", mock.Anything, int64(9), int64(2)).Return(&serverNew, nil)
	to.On("FindProgress", mock.Anything, int64(9), int64(3)).Return(nil, nil)
	to.On("SaveProgress", mock.Anything, mock.MatchedBy(func(p *domain.Progress) bool {
		return p.UserID == 9 && (p.ItemID == 1 || p.ItemID == 3)
	})).Return(nil).Twice()

	service := NewSyncService(items, testutil.NewTestLogger())

	result, err := service.Merge(context.Background(), 9, from, to)

	require.NoError(t, err)
	assert.Equal(t, SyncResult{Copied: 2, Kept: 1, Skipped: 1}, result)
	from.AssertExpectations(t)
	to.AssertExpectations(t)
	items.AssertExpectations(t)
}

func TestSyncService_Merge_Errors(t *testing.T) {
	dbErr := errors.New("db error")
	item := testutil.NewTestItem(1, 1)
	record := testutil.NewTestProgress(9, 1, time.Now())

	tests := []struct {
		name  string
		setup func(from, to *testutil.MockProgressRepository, items *testutil.MockItemRepository)
	}{
		{
			name: "source read fails",
			setup: func(from, to *testutil.MockProgressRepository, items *testutil.MockItemRepository) {
				from.On("ListProgress", mock.Anything, int64(9)).Return(nil, dbErr)
			},
		},
		{
			name: "catalog lookup fails",
			setup: func(from, to *testutil.MockProgressRepository, items *testutil.MockItemRepository) {
				from.On("ListProgress", mock.Anything, int64(9)).Return([]domain.Progress{record}, nil)
				items.On("GetItem", mock.Anything, int64(1)).Return(nil, dbErr)
			},
		},
		{
			name: "target write fails",
			setup: func(from, to *testutil.MockProgressRepository, items *testutil.MockItemRepository) {
				from.On("ListProgress", mock.Anything, int64(9)).Return([]domain.Progress{record}, nil)
				items.On("GetItem", mock.Anything, int64(1)).Return(&item, nil)
				to.On("FindProgress", mock.Anything, int64(9), int64(1)).Return(nil, nil)
				to.On("SaveProgress", mock.Anything, mock.Anything).Return(dbErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := new(testutil.MockProgressRepository)
			to := new(testutil.MockProgressRepository)
			items := new(testutil.MockItemRepository)
			tt.setup(from, to, items)

			service := NewSyncService(items, testutil.NewTestLogger())

			_, err := service.Merge(context.Background(), 9, from, to)

			assert.ErrorIs(t, err, dbErr)
		})
	}
}
