// Package main is the operator CLI: migrations, admin provisioning and a terminal view of shift availability.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"campregistration/config"
)

// App holds the dependencies shared by commands.
type App struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger
	ctx    context.Context
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:           "campctl",
		Short:         "Camp kitchen-shift administration",
		Long:          `Operator tool for the camp kitchen-shift registry: apply migrations, create admin accounts, approve members and inspect availability.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.db != nil {
				app.db.Close()
			}
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(approveMemberCmd())
	rootCmd.AddCommand(availabilityCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initApp loads config and opens the database
func initApp() error {
	logger := config.NewLogger("campctl")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app = &App{cfg: cfg, db: db, logger: logger, ctx: context.Background()}
	logger.Debug("campctl initialized", "env", cfg.Environment)
	return nil
}
