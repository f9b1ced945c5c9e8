package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farsiflash/internal/config"
	"farsiflash/internal/repository"
	"farsiflash/internal/repository/postgres"
	"farsiflash/internal/repository/sqlite"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	maxConnectAttempts = 30
	connectRetryDelay  = 2 * time.Second
)

// Stores bundles the repositories of one storage backend
type Stores struct {
	Users    repository.UserRepository
	Items    repository.ItemRepository
	Progress repository.ProgressRepository

	close func() error
}

// Close releases the underlying connection
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured backend and brings its schema up to date
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.DriverPostgres:
		db, err := connectPostgres(ctx, cfg.DSN(), logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connection established")

		if err := runMigrations(db, cfg.MigrationsDir, logger); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{
			Users:    postgres.NewUserRepo(db),
			Items:    postgres.NewItemRepo(db),
			Progress: postgres.NewProgressRepo(db),
			close:    db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens a local-first store at path
func OpenSQLite(path string) (*Stores, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Users:    sqlite.NewUserRepo(db),
		Items:    sqlite.NewItemRepo(db),
		Progress: sqlite.NewProgressRepo(db),
		close:    db.Close,
	}, nil
}

// connectPostgres connects to PostgreSQL with retries
func connectPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < maxConnectAttempts; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			// Test connection
			if err = db.PingContext(ctx); err == nil {
				db.SetMaxOpenConns(25)
				db.SetMaxIdleConns(5)
				db.SetConnMaxLifetime(5 * time.Minute)
				return db, nil
			}
			db.Close()
		}

		logger.Warn("Failed to connect to database",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxConnectAttempts, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, dir string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch err {
	case nil:
		logger.Info("Migrations applied successfully")
	case migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	default:
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
