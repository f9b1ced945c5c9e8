package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the SQLite file at path and creates the schema if needed.
// ":memory:" gives a private in-process store.
func Open(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer, and every :memory: connection is its own database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			authorized BOOLEAN NOT NULL DEFAULT FALSE,
			level INTEGER NOT NULL DEFAULT 1 CHECK (level BETWEEN 1 AND 5),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			prompt TEXT NOT NULL,
			translation TEXT NOT NULL,
			transliteration TEXT NOT NULL DEFAULT '',
			level INTEGER NOT NULL CHECK (level BETWEEN 1 AND 5),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(prompt, translation)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS progress (
			user_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			repetitions INTEGER NOT NULL DEFAULT 0,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			interval_days INTEGER NOT NULL DEFAULT 0,
			next_review_date TIMESTAMP NOT NULL,
			last_assessment TEXT NOT NULL DEFAULT '',
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			consecutive_wrong INTEGER NOT NULL DEFAULT 0,
			total_correct INTEGER NOT NULL DEFAULT 0,
			total_wrong INTEGER NOT NULL DEFAULT 0,
			accuracy INTEGER NOT NULL DEFAULT 0,
			is_learned BOOLEAN NOT NULL DEFAULT FALSE,
			last_reviewed_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (user_id, item_id),
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create progress table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_progress_due ON progress (user_id, next_review_date)`)
	if err != nil {
		return fmt.Errorf("failed to create progress index: %w", err)
	}

	return nil
}
