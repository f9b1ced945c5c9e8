package service

import (
	"context"
	"fmt"
	"time"

	"farsiflash/internal/answer"
	"farsiflash/internal/domain"
	"farsiflash/internal/repository"
	"farsiflash/internal/srs"

	"go.uber.org/zap"
)

// ReviewService records review outcomes
type ReviewService struct {
	itemRepo     repository.ItemRepository
	progressRepo repository.ProgressRepository
	scheduler    *srs.Scheduler
	logger       *zap.Logger
	now          func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(itemRepo repository.ItemRepository, progressRepo repository.ProgressRepository, scheduler *srs.Scheduler, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		itemRepo:     itemRepo,
		progressRepo: progressRepo,
		scheduler:    scheduler,
		logger:       logger,
		now:          time.Now,
	}
}

// SubmitReview schedules the next review of an item and stores the result
func (s *ReviewService) SubmitReview(ctx context.Context, userID, itemID int64, assessment domain.Assessment, isCorrect bool) (*domain.Progress, error) {
	if !assessment.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAssessment, assessment)
	}

	if _, err := s.activeItem(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	p, err := s.progressRepo.UpdateProgress(ctx, userID, itemID, func(prior *domain.Progress) (domain.Progress, error) {
		return s.scheduler.Score(assessment, isCorrect, prior, now), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Review recorded",
		zap.Int64("user_id", userID),
		zap.Int64("item_id", itemID),
		zap.String("assessment", string(assessment)),
		zap.Bool("correct", isCorrect),
		zap.Int("interval_days", p.IntervalDays),
		zap.Bool("learned", p.IsLearned),
	)

	return p, nil
}

// CheckAnswer reports whether given matches the item's translation.
// The item is returned so the caller can show the expected answer.
func (s *ReviewService) CheckAnswer(ctx context.Context, itemID int64, given string) (bool, *domain.Item, error) {
	item, err := s.activeItem(ctx, itemID)
	if err != nil {
		return false, nil, err
	}
	return answer.Match(item.Translation, given), item, nil
}

func (s *ReviewService) activeItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := s.itemRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil || !item.Active {
		return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}
	return item, nil
}
