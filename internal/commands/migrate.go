package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/submission-relay/internal/auditlog"
)

var migrateDatabaseURL string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the delivery_records schema for the postgres audit backend",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "PostgreSQL URL (default: audit.database_url)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	url := migrateDatabaseURL
	if url == "" {
		url = cfg.Audit.DatabaseURL
	}
	if url == "" {
		return errors.New("no database URL: set audit.database_url or --database-url")
	}

	if err := auditlog.Migrate(url); err != nil {
		return err
	}
	logger.Info("Migrations applied")
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
	return nil
}
