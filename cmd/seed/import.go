package main

import (
	"fmt"

	"farsiflash/internal/config"
	"farsiflash/internal/database"
	"farsiflash/internal/importer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Upsert catalog items from a .csv or .xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadDatabase()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		stores, err := database.Open(ctx, *cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer stores.Close()

		result, err := importer.Import(ctx, args[0], stores.Items)
		if err != nil {
			return err
		}

		logger.Info("Import finished",
			zap.String("file", args[0]),
			zap.Int("processed", result.Processed),
			zap.Int("upserted", result.Upserted),
			zap.Int("skipped", result.Skipped),
		)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed: %d, upserted: %d, skipped: %d\n", result.Processed, result.Upserted, result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return nil
	},
}
