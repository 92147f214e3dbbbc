package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(migrateUpCmd(), migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := postgres.NewDB(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			count, err := postgres.NewMigrator(db).Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed after %d applied: %w", count, err)
			}

			log.Info().Int("applied", count).Msg("Migrations complete")
			return nil
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := postgres.NewDB(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			statuses, err := postgres.NewMigrator(db).Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read migration status: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
			for _, s := range statuses {
				state, at := "pending", "-"
				if s.Applied {
					state = "applied"
					if s.AppliedAt != nil {
						at = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(w, "%03d\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
			}
			return w.Flush()
		},
	}
}
