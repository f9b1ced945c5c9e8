package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farsiflash/internal/domain"

	"github.com/jmoiron/sqlx"
)

const progressColumns = `user_id, item_id, repetitions, ease_factor, interval_days, next_review_date,
	last_assessment, consecutive_correct, consecutive_wrong, total_correct, total_wrong,
	accuracy, is_learned, last_reviewed_at, updated_at, version`

const maxUpdateAttempts = 3

type progressRow struct {
	UserID             int64     `db:"user_id"`
	ItemID             int64     `db:"item_id"`
	Repetitions        int       `db:"repetitions"`
	EaseFactor         float64   `db:"ease_factor"`
	IntervalDays       int       `db:"interval_days"`
	NextReviewDate     time.Time `db:"next_review_date"`
	LastAssessment     string    `db:"last_assessment"`
	ConsecutiveCorrect int       `db:"consecutive_correct"`
	ConsecutiveWrong   int       `db:"consecutive_wrong"`
	TotalCorrect       int       `db:"total_correct"`
	TotalWrong         int       `db:"total_wrong"`
	Accuracy           int       `db:"accuracy"`
	IsLearned          bool      `db:"is_learned"`
	LastReviewedAt     time.Time `db:"last_reviewed_at"`
	UpdatedAt          time.Time `db:"updated_at"`
	Version            int       `db:"version"`
}

func newProgressRow(p *domain.Progress) progressRow {
	return progressRow{
		UserID:             p.UserID,
		ItemID:             p.ItemID,
		Repetitions:        p.Repetitions,
		EaseFactor:         p.EaseFactor,
		IntervalDays:       p.IntervalDays,
		NextReviewDate:     p.NextReviewDate.UTC(),
		LastAssessment:     string(p.LastAssessment),
		ConsecutiveCorrect: p.ConsecutiveCorrect,
		ConsecutiveWrong:   p.ConsecutiveWrong,
		TotalCorrect:       p.TotalCorrect,
		TotalWrong:         p.TotalWrong,
		Accuracy:           p.Accuracy,
		IsLearned:          p.IsLearned,
		LastReviewedAt:     p.LastReviewedAt.UTC(),
		UpdatedAt:          p.UpdatedAt.UTC(),
		Version:            p.Version,
	}
}

func (r progressRow) toDomain() domain.Progress {
	return domain.Progress{
		UserID:             r.UserID,
		ItemID:             r.ItemID,
		Repetitions:        r.Repetitions,
		EaseFactor:         r.EaseFactor,
		IntervalDays:       r.IntervalDays,
		NextReviewDate:     r.NextReviewDate,
		LastAssessment:     domain.Assessment(r.LastAssessment),
		ConsecutiveCorrect: r.ConsecutiveCorrect,
		ConsecutiveWrong:   r.ConsecutiveWrong,
		TotalCorrect:       r.TotalCorrect,
		TotalWrong:         r.TotalWrong,
		Accuracy:           r.Accuracy,
		IsLearned:          r.IsLearned,
		LastReviewedAt:     r.LastReviewedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
	}
}

// ProgressRepo implements repository.ProgressRepository on SQLite
type ProgressRepo struct {
	db *sqlx.DB
}

// NewProgressRepo creates a new progress repository
func NewProgressRepo(db *sqlx.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// FindProgress returns the user's progress on an item, or nil if there is none
func (r *ProgressRepo) FindProgress(ctx context.Context, userID, itemID int64) (*domain.Progress, error) {
	var row progressRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := row.toDomain()
	return &p, nil
}

// ListProgress returns all progress records of a user
func (r *ProgressRepo) ListProgress(ctx context.Context, userID int64) ([]domain.Progress, error) {
	var rows []progressRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = ? ORDER BY item_id`, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	records := make([]domain.Progress, len(rows))
	for i, row := range rows {
		records[i] = row.toDomain()
	}
	return records, nil
}

// SaveProgress inserts or overwrites the record for (p.UserID, p.ItemID)
func (r *ProgressRepo) SaveProgress(ctx context.Context, p *domain.Progress) error {
	row := newProgressRow(p)
	row.Version = 1
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO progress (`+progressColumns+`)
		VALUES (:user_id, :item_id, :repetitions, :ease_factor, :interval_days, :next_review_date,
			:last_assessment, :consecutive_correct, :consecutive_wrong, :total_correct, :total_wrong,
			:accuracy, :is_learned, :last_reviewed_at, :updated_at, :version)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET
			repetitions = excluded.repetitions,
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			next_review_date = excluded.next_review_date,
			last_assessment = excluded.last_assessment,
			consecutive_correct = excluded.consecutive_correct,
			consecutive_wrong = excluded.consecutive_wrong,
			total_correct = excluded.total_correct,
			total_wrong = excluded.total_wrong,
			accuracy = excluded.accuracy,
			is_learned = excluded.is_learned,
			last_reviewed_at = excluded.last_reviewed_at,
			updated_at = excluded.updated_at,
			version = progress.version + 1
	`, row)
	if err != nil {
		return err
	}
	return r.db.GetContext(ctx, &p.Version,
		`SELECT version FROM progress WHERE user_id = ? AND item_id = ?`, p.UserID, p.ItemID)
}

// UpdateProgress applies fn to the current record and stores the result,
// retrying the read-modify-write when another writer got there first.
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

		var res sql.Result
		if prior == nil {
			next.Version = 1
			res, err = r.db.NamedExecContext(ctx, `
				INSERT INTO progress (`+progressColumns+`)
				VALUES (:user_id, :item_id, :repetitions, :ease_factor, :interval_days, :next_review_date,
					:last_assessment, :consecutive_correct, :consecutive_wrong, :total_correct, :total_wrong,
					:accuracy, :is_learned, :last_reviewed_at, :updated_at, :version)
				ON CONFLICT (user_id, item_id) DO NOTHING
			`, newProgressRow(&next))
		} else {
			next.Version = prior.Version + 1
			res, err = r.db.NamedExecContext(ctx, `
				UPDATE progress SET
					repetitions = :repetitions,
					ease_factor = :ease_factor,
					interval_days = :interval_days,
					next_review_date = :next_review_date,
					last_assessment = :last_assessment,
					consecutive_correct = :consecutive_correct,
					consecutive_wrong = :consecutive_wrong,
					total_correct = :total_correct,
					total_wrong = :total_wrong,
					accuracy = :accuracy,
					is_learned = :is_learned,
					last_reviewed_at = :last_reviewed_at,
					updated_at = :updated_at,
					version = :version
				WHERE user_id = :user_id AND item_id = :item_id AND version = :version - 1
			`, newProgressRow(&next))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write progress: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to write progress: %w", err)
		}
		if n == 1 {
			return &next, nil
		}
	}

	return nil, domain.ErrConcurrentUpdate
}
