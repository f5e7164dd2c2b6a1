package cmd

import (
	"fmt"

	"blog/config"
	"blog/logging"
	"blog/pkg/db/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCommand(cfg *config.Config, logger logging.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the sqlite or postgres schema",
	}

	dsn := func() (string, error) {
		if err := cfg.Validate(); err != nil {
			return "", err
		}
		if cfg.MigrationDSN() == "" {
			return "", fmt.Errorf("backend %q has no sql migrations", cfg.Backend)
		}
		return cfg.MigrationDSN(), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := dsn()
				if err != nil {
					return err
				}
				return migrations.ApplyMigrations(cfg.Backend, d, logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := dsn()
				if err != nil {
					return err
				}
				return migrations.RollbackLastMigration(cfg.Backend, d, logger)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := dsn()
				if err != nil {
					return err
				}
				version, dirty, ok, err := migrations.Version(cfg.Backend, d)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}
