package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"trailhead/internal/config"
	"trailhead/internal/db"
)

var databaseURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the trailhead database schema",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if databaseURL == "" {
				databaseURL = config.Load().DatabaseURL
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database", "", "Postgres connection string (defaults to DATABASE_URL)")

	rootCmd.AddCommand(upCmd(), downCmd(), versionCmd(), forceCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("migration command failed", "error", err)
		os.Exit(1)
	}
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	m, err := db.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no change")
		return nil
	}
	return err
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				return ignoreNoChange(m.Up())
			})
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			return withMigrator(func(m *migrate.Migrate) error {
				return ignoreNoChange(m.Steps(-steps))
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Println("no migrations applied")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Printf("version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	}
}

func forceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return withMigrator(func(m *migrate.Migrate) error {
				return m.Force(version)
			})
		},
	}
}
