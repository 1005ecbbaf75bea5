package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rl1809/quickmart/internal/adapter/storage"
	"github.com/rl1809/quickmart/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "quickmartctl",
	Short:         "Administer a quickmart database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema in the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		log.Info().Msg("schema up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate and load demo data into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		return storage.Seed(cmd.Context(), db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd)
}

func openDB(ctx context.Context) (*storage.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, storage.Options{
		Driver:       storage.Dialect(cfg.DBDriver),
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxConns,
		LogQueries:   cfg.DBLogQueries,
	})
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
