package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/event-simulator/internal/persistence/sqlite"
)

func newMigrateCommand(app *cli) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := sqlite.Open(app.cfg.SQLiteDSN, sqlite.WithLogger(app.logger))
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer app.closeStore(store)

			if !statusOnly {
				if err := store.Migrate(ctx); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
			}

			status, err := store.MigrationStatus(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schema version: %s\n", displayVersion(status.CurrentVersion))
			fmt.Fprintf(out, "applied: %d, pending: %d\n", len(status.AppliedMigrations), status.PendingCount)
			for _, pending := range status.PendingMigrations {
				fmt.Fprintf(out, "  pending %s %s\n", pending.Version, pending.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "report schema status without applying migrations")
	return cmd
}

func displayVersion(version string) string {
	if version == "" {
		return "none"
	}
	return version
}
