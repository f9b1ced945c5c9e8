package config

import (
	"fmt"
	"os"
	"strconv"

	"farsiflash/internal/domain"

	"github.com/joho/godotenv"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	BotToken     string
	BotPassword  string
	Database     DatabaseConfig
	SessionSize  int
	DefaultLevel int
	ReminderHour int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SQLitePath    string
	MigrationsDir string
}

// Load reads bot configuration from environment variables
func Load() (*Config, error) {
	db, err := LoadDatabase()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		Database:    *db,
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}

	if cfg.SessionSize, err = getEnvInt("SESSION_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.SessionSize <= 0 {
		return nil, fmt.Errorf("SESSION_SIZE must be positive, got %d", cfg.SessionSize)
	}

	if cfg.DefaultLevel, err = getEnvInt("DEFAULT_LEVEL", domain.MinLevel); err != nil {
		return nil, err
	}
	if !domain.ValidLevel(cfg.DefaultLevel) {
		return nil, fmt.Errorf("DEFAULT_LEVEL must be between %d and %d, got %d", domain.MinLevel, domain.MaxLevel, cfg.DefaultLevel)
	}

	if cfg.ReminderHour, err = getEnvInt("REMINDER_HOUR", 9); err != nil {
		return nil, err
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return nil, fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", cfg.ReminderHour)
	}

	return cfg, nil
}

// LoadDatabase reads only the storage settings, for tools that don't run the bot
func LoadDatabase() (*DatabaseConfig, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	db := &DatabaseConfig{
		Driver:        getEnv("DB_DRIVER", DriverPostgres),
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          getEnv("DB_PORT", "5432"),
		Name:          getEnv("DB_NAME", "farsiflash"),
		User:          getEnv("DB_USER", "farsiflash"),
		Password:      os.Getenv("DB_PASSWORD"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/farsiflash.db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
	}

	switch db.Driver {
	case DriverPostgres:
		if db.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, db.Driver)
	}

	return db, nil
}

// DSN returns PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
