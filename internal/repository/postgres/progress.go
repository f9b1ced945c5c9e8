package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"farsiflash/internal/domain"
)

const progressColumns = `user_id, item_id, repetitions, ease_factor, interval_days, next_review_date,
	last_assessment, consecutive_correct, consecutive_wrong, total_correct, total_wrong,
	accuracy, is_learned, last_reviewed_at, updated_at, version`

// maxUpdateAttempts bounds optimistic retries in UpdateProgress
const maxUpdateAttempts = 3

// ProgressRepo implements repository.ProgressRepository
type ProgressRepo struct {
	db *sql.DB
}

// NewProgressRepo creates a new progress repository
func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// FindProgress returns the user's progress on an item, or nil if there is none
func (r *ProgressRepo) FindProgress(ctx context.Context, userID, itemID int64) (*domain.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = $1 AND item_id = $2`
	p, err := scanProgress(r.db.QueryRowContext(ctx, query, userID, itemID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProgress returns all progress records of a user
func (r *ProgressRepo) ListProgress(ctx context.Context, userID int64) ([]domain.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = $1 ORDER BY item_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *p)
	}

	return records, rows.Err()
}

// SaveProgress inserts or overwrites the record for (p.UserID, p.ItemID)
func (r *ProgressRepo) SaveProgress(ctx context.Context, p *domain.Progress) error {
	query := `
		INSERT INTO progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET
			repetitions = EXCLUDED.repetitions,
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			next_review_date = EXCLUDED.next_review_date,
			last_assessment = EXCLUDED.last_assessment,
			consecutive_correct = EXCLUDED.consecutive_correct,
			consecutive_wrong = EXCLUDED.consecutive_wrong,
			total_correct = EXCLUDED.total_correct,
			total_wrong = EXCLUDED.total_wrong,
			accuracy = EXCLUDED.accuracy,
			is_learned = EXCLUDED.is_learned,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			updated_at = EXCLUDED.updated_at,
			version = progress.version + 1
		RETURNING version
	`
	return r.db.QueryRowContext(ctx, query, progressArgs(p)...).Scan(&p.Version)
}

// UpdateProgress applies fn to the current record and stores the result.
// A version check on update and ON CONFLICT DO NOTHING on first insert
// detect a concurrent writer; the read-modify-write is then retried.
func (r *ProgressRepo) UpdateProgress(ctx context.Context, userID, itemID int64, fn domain.ProgressMutator) (*domain.Progress, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		prior, err := r.FindProgress(ctx, userID, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to read progress: %w", err)
		}

		next, err := fn(prior)
		if err != nil {
			return nil, err
		}
		next.UserID = userID
		next.ItemID = itemID

		var ok bool
		if prior == nil {
			next.Version = 1
			ok, err = r.insertNew(ctx, &next)
		} else {
			next.Version = prior.Version + 1
			ok, err = r.updateVersioned(ctx, &next, prior.Version)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write progress: %w", err)
		}
		if ok {
			return &next, nil
		}
	}

	return nil, domain.ErrConcurrentUpdate
}

func (r *ProgressRepo) insertNew(ctx context.Context, p *domain.Progress) (bool, error) {
	query := `
		INSERT INTO progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, item_id) DO NOTHING
	`
	args := append(progressArgs(p), p.Version)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *ProgressRepo) updateVersioned(ctx context.Context, p *domain.Progress, expectedVersion int) (bool, error) {
	query := `
		UPDATE progress SET
			repetitions = $3,
			ease_factor = $4,
			interval_days = $5,
			next_review_date = $6,
			last_assessment = $7,
			consecutive_correct = $8,
			consecutive_wrong = $9,
			total_correct = $10,
			total_wrong = $11,
			accuracy = $12,
			is_learned = $13,
			last_reviewed_at = $14,
			updated_at = $15,
			version = $16
		WHERE user_id = $1 AND item_id = $2 AND version = $17
	`
	args := append(progressArgs(p), p.Version, expectedVersion)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// progressArgs returns the first 15 columns of progressColumns in order
func progressArgs(p *domain.Progress) []any {
	return []any{
		p.UserID,
		p.ItemID,
		p.Repetitions,
		p.EaseFactor,
		p.IntervalDays,
		p.NextReviewDate,
		string(p.LastAssessment),
		p.ConsecutiveCorrect,
		p.ConsecutiveWrong,
		p.TotalCorrect,
		p.TotalWrong,
		p.Accuracy,
		p.IsLearned,
		p.LastReviewedAt,
		p.UpdatedAt,
	}
}

func scanProgress(s scanner) (*domain.Progress, error) {
	var p domain.Progress
	var assessment string
	err := s.Scan(
		&p.UserID, &p.ItemID, &p.Repetitions, &p.EaseFactor, &p.IntervalDays, &p.NextReviewDate,
		&assessment, &p.ConsecutiveCorrect, &p.ConsecutiveWrong, &p.TotalCorrect, &p.TotalWrong,
		&p.Accuracy, &p.IsLearned, &p.LastReviewedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		return nil, err
	}
	p.LastAssessment = domain.Assessment(assessment)
	return &p, nil
}
