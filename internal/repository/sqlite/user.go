package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// UserRepo implements repository.UserRepository on SQLite
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// IsAuthorized checks if user is authorized
func (r *UserRepo) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	var authorized bool
	err := r.db.GetContext(ctx, &authorized, "SELECT authorized FROM users WHERE user_id = ?", userID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return authorized, err
}

// AuthorizeUser marks user as authorized
func (r *UserRepo) AuthorizeUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, authorized) VALUES (?, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET authorized = TRUE
	`, userID)
	return err
}

// EnsureUserExists creates user record if not exists
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO users (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING", userID)
	return err
}

// GetLevel returns the user's level, 1 for unknown users
func (r *UserRepo) GetLevel(ctx context.Context, userID int64) (int, error) {
	var level int
	err := r.db.GetContext(ctx, &level, "SELECT level FROM users WHERE user_id = ?", userID)
	if err == sql.ErrNoRows {
		return 1, nil
	}
	return level, err
}

// SetLevel stores the user's level
func (r *UserRepo) SetLevel(ctx context.Context, userID int64, level int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, level) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET level = excluded.level
	`, userID, level)
	return err
}

// ListAuthorized returns ids of all authorized users
func (r *UserRepo) ListAuthorized(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, "SELECT user_id FROM users WHERE authorized = TRUE ORDER BY user_id")
	return ids, err
}
