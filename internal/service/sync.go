package service

import (
	"context"
	"fmt"

	"farsiflash/internal/repository"

	"go.uber.org/zap"
)

// SyncResult reports what a merge did
type SyncResult struct {
	Copied  int
	Kept    int
	Skipped int
}

// SyncService merges progress recorded in a local store into another store
type SyncService struct {
	targetItems repository.ItemRepository
	logger      *zap.Logger
}

// NewSyncService creates a sync service; targetItems is the catalog of the destination store
func NewSyncService(targetItems repository.ItemRepository, logger *zap.Logger) *SyncService {
	return &SyncService{
		targetItems: targetItems,
		logger:      logger,
	}
}

// Merge copies the user's records from `from` into `to`. A record is copied
// when `to` has none for the item or its copy was reviewed earlier.
// Records for items missing from the destination catalog are skipped.
func (s *SyncService) Merge(ctx context.Context, userID int64, from, to repository.ProgressRepository) (SyncResult, error) {
	var result SyncResult

	records, err := from.ListProgress(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to read source progress: %w", err)
	}

	for i := range records {
		src := records[i]

		item, err := s.targetItems.GetItem(ctx, src.ItemID)
		if err != nil {
			return result, fmt.Errorf("failed to look up item %d: %w", src.ItemID, err)
		}
		if item == nil {
			s.logger.Warn("Skipping progress for unknown item", zap.Int64("user_id", userID), zap.Int64("item_id", src.ItemID))
			result.Skipped++
			continue
		}

		dst, err := to.FindProgress(ctx, userID, src.ItemID)
		if err != nil {
			return result, fmt.Errorf("failed to read target progress: %w", err)
		}
		if dst != nil && !dst.LastReviewedAt.Before(src.LastReviewedAt) {
			result.Kept++
			continue
		}

		src.UserID = userID
		if err := to.SaveProgress(ctx, &src); err != nil {
			return result, fmt.Errorf("failed to write progress for item %d: %w", src.ItemID, err)
		}
		result.Copied++
	}

	s.logger.Info("Progress merged",
		zap.Int64("user_id", userID),
		zap.Int("copied", result.Copied),
		zap.Int("kept", result.Kept),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}
