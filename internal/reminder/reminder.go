package reminder

import (
	"context"
	"fmt"
	"time"

	"farsiflash/internal/domain"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Notifier delivers a reminder to a user
type Notifier interface {
	SendReminder(userID int64, due int) error
}

// UserLister lists users who may receive reminders
type UserLister interface {
	ListAuthorized(ctx context.Context) ([]int64, error)
}

// Summarizer computes a user's progress totals
type Summarizer interface {
	Summary(ctx context.Context, userID int64) (domain.Stats, error)
}

// Scheduler sends a daily reminder to every learner with reviews due
type Scheduler struct {
	scheduler *gocron.Scheduler
	users     UserLister
	stats     Summarizer
	notifier  Notifier
	hour      int
	logger    *zap.Logger
}

// New creates a reminder scheduler firing daily at hour (UTC)
func New(users UserLister, stats Summarizer, notifier Notifier, hour int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		users:     users,
		stats:     stats,
		notifier:  notifier,
		hour:      hour,
		logger:    logger,
	}
}

// Start schedules the daily job and runs the scheduler in the background
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("Reminder scheduler started", zap.Int("hour_utc", s.hour))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce notifies every authorized user with due items and returns how many were notified.
// A failure for one user is logged and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	userIDs, err := s.users.ListAuthorized(ctx)
	if err != nil {
		s.logger.Error("Failed to list users for reminders", zap.Error(err))
		return 0
	}

	sent := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			s.logger.Warn("Reminder run interrupted", zap.Error(ctx.Err()))
			break
		}

		stats, err := s.stats.Summary(ctx, userID)
		if err != nil {
			s.logger.Error("Failed to compute due items", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		if stats.Due == 0 {
			continue
		}

		if err := s.notifier.SendReminder(userID, stats.Due); err != nil {
			s.logger.Error("Failed to send reminder", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("Reminders sent", zap.Int("users", len(userIDs)), zap.Int("sent", sent))
	return sent
}
