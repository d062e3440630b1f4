package cli

import (
	"context"

	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/container"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates or updates the database tables.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := config.Open(settings.Database.Driver, settings.Database.DSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := container.Migrate(db); err != nil {
		config.WithContext(ctx).WithError(err).Error("Migration failed")
		return err
	}
	config.WithContext(ctx).Info("Migrations applied")
	return nil
}
