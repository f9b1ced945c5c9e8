package service

import (
	"context"
	"time"

	"farsiflash/internal/domain"
	"farsiflash/internal/repository"

	"go.uber.org/zap"
)

// StatsService computes learner statistics
type StatsService struct {
	progressRepo repository.ProgressRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(progressRepo repository.ProgressRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		progressRepo: progressRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Summary returns the learner's progress totals as of now
func (s *StatsService) Summary(ctx context.Context, userID int64) (domain.Stats, error) {
	records, err := s.progressRepo.ListProgress(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load progress", zap.Int64("user_id", userID), zap.Error(err))
		return domain.Stats{}, err
	}

	now := s.now()
	var stats domain.Stats
	var correct, wrong int
	for i := range records {
		p := &records[i]
		stats.Tracked++
		if p.IsLearned {
			stats.Learned++
		}
		if p.IsFailed() {
			stats.Failed++
		}
		if p.IsDue(now) {
			stats.Due++
		}
		correct += p.TotalCorrect
		wrong += p.TotalWrong
	}
	stats.Accuracy = domain.Accuracy(correct, wrong)

	return stats, nil
}
