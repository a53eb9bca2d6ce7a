package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunecrate/internal/logging"
	"tunecrate/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:           "tunecrate",
		Short:         "Menu-driven console for a music catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), runMenu)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "menu",
		Short: "Run the interactive catalog menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), runMenu)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "provision",
		Short: "Create all catalog tables if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				if err := st.Provision(ctx); err != nil {
					return err
				}
				logging.Info("catalog schema provisioned")
				return nil
			})
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tunecrate: %v\n", err)
		os.Exit(1)
	}
}

// withStore loads configuration, opens the database, and hands a ready
// Store to fn, closing the connection afterwards.
func withStore(ctx context.Context, fn func(context.Context, *store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	return fn(ctx, store.New(db))
}
