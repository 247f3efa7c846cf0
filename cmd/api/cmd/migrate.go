package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vocalab-users/cmd/api/app"
	"vocalab-users/cmd/api/infrastructure"
	"vocalab-users/internal/adapter/db/postgres"
	"vocalab-users/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the user_profiles table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := app.InitLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = l.Sync() }()

		db, err := infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return err
		}
		defer func() { _ = infrastructure.CloseDatabase(db) }()

		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		l.Info("migration complete", zap.String("driver", cfg.DB.Driver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
