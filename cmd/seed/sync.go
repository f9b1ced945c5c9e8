package main

import (
	"errors"
	"fmt"

	"farsiflash/internal/config"
	"farsiflash/internal/database"
	"farsiflash/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncSQLitePath string
	syncUserID     int64
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge progress from a local SQLite store into the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncSQLitePath == "" {
			return errors.New("--sqlite is required")
		}
		if syncUserID == 0 {
			return errors.New("--user is required")
		}

		ctx := cmd.Context()

		cfg, err := config.LoadDatabase()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		local, err := database.OpenSQLite(syncSQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer local.Close()

		target, err := database.Open(ctx, *cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer target.Close()

		if err := target.Users.EnsureUserExists(ctx, syncUserID); err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}

		result, err := service.NewSyncService(target.Items, logger).Merge(ctx, syncUserID, local.Progress, target.Progress)
		if err != nil {
			return err
		}

		logger.Info("Sync finished",
			zap.Int64("user_id", syncUserID),
			zap.Int("copied", result.Copied),
			zap.Int("kept", result.Kept),
			zap.Int("skipped", result.Skipped),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Copied: %d, kept: %d, skipped: %d\n", result.Copied, result.Kept, result.Skipped)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncSQLitePath, "sqlite", "", "path to the local SQLite store")
	syncCmd.Flags().Int64Var(&syncUserID, "user", 0, "Telegram user id owning the progress")
}
