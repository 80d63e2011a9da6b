// Package cli implements the rosreg-admin command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
	"github.com/rosverk/rosreg/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "rosreg-admin",
	Short: "Administrative tasks for the rosreg service",
	Long: `rosreg-admin performs maintenance tasks against the rosreg database:
seeding the reference catalogs, running gap and alert reports, and writing
register exports to disk. It reads the same configuration as the server.`,
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// adminLogger keeps command output readable: warnings and errors only,
// plain console format.
func adminLogger() logger.Logger {
	log, err := logger.NewLogger("warn", "console", "stderr")
	if err != nil {
		return logger.NewDefaultLogger()
	}
	return log
}

// loadConfig loads the shared service configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openDatabase connects using the shared configuration and keeps the
// schema current, so commands work against a fresh database too.
func openDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*postgres.Database, error) {
	db, err := postgres.NewDatabase(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
