package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/backend"
	"github.com/adfharrison1/bookshelf/pkg/config"
	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/fixture"
	"github.com/adfharrison1/bookshelf/pkg/logging"
	"github.com/adfharrison1/bookshelf/pkg/runner"
	"github.com/adfharrison1/bookshelf/pkg/seeder"
	"github.com/adfharrison1/bookshelf/pkg/server"
)

// newRootCmd builds the command tree. Flag defaults come from cfg, which
// already holds the environment, so flags override BOOKSHELF_* variables.
// The returned function flushes the logger and must run after Execute,
// whether or not the command failed.
func newRootCmd(cfg *config.Config) (*cobra.Command, func()) {
	flushLogs := func() {}

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Seed, query and inspect a bookstore collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			flush, err := logging.Setup(cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return err
			}
			flushLogs = flush
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: memory, sqlite or mongo")
	flags.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "snapshot file of the memory backend, empty disables persistence")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "database file of the sqlite backend, :memory: for a scratch database")
	flags.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "connection string of the mongo backend")
	flags.StringVar(&cfg.MongoDatabase, "mongo-database", cfg.MongoDatabase, "database name of the mongo backend")
	flags.StringVar(&cfg.Collection, "collection", cfg.Collection, "collection (or table) holding the books")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flags.BoolVar(&cfg.LogDevelopment, "log-development", cfg.LogDevelopment, "human readable console logs")

	root.AddCommand(newSeedCmd(cfg), newQueriesCmd(cfg), newServeCmd(cfg))
	return root, func() { flushLogs() }
}

// withStore opens a session on the configured backend and hands its store to fn.
func withStore(ctx context.Context, cfg *config.Config, fn func(context.Context, domain.BookStore) error) error {
	connector, err := backend.NewConnector(cfg)
	if err != nil {
		return err
	}
	return backend.WithSession(ctx, connector, func(ctx context.Context, sess domain.Session) error {
		return fn(ctx, sess.Books())
	})
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the collection contents with the canonical books",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), cfg, func(ctx context.Context, store domain.BookStore) error {
				if _, err := seeder.Run(ctx, store, fixture.Books(), cmd.OutOrStdout()); err != nil {
					zap.S().Errorf("Seeding %s/%s failed: %v", cfg.Backend, cfg.Collection, err)
					return err
				}
				return nil
			})
		},
	}
}

func newQueriesCmd(cfg *config.Config) *cobra.Command {
	var (
		step string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Run the demonstration queries against the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withStore(cmd.Context(), cfg, func(ctx context.Context, store domain.BookStore) error {
				if seed {
					if _, err := seeder.Run(ctx, store, fixture.Books(), out); err != nil {
						zap.S().Errorf("Seeding before queries failed: %v", err)
						return err
					}
				}
				r := runner.New(store, out)
				if step != "" {
					_, err := r.RunStep(ctx, step)
					return logFailure(err)
				}
				_, err := r.Run(ctx)
				return logFailure(err)
			})
		},
	}
	cmd.Flags().StringVar(&step, "step", "", "run a single named step instead of the whole sequence")
	cmd.Flags().BoolVar(&seed, "seed", false, "reset the collection to the canonical books first")
	return cmd
}

func logFailure(err error) error {
	if err != nil {
		zap.S().Errorf("Query run aborted: %v", err)
	}
	return err
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspection HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Backend == config.BackendMemory && cfg.BackgroundSave == 0 {
				zap.S().Warnf("Background save disabled - data only saved on graceful shutdown")
			}
			return withStore(cmd.Context(), cfg, func(ctx context.Context, store domain.BookStore) error {
				return server.NewServer(store).ListenAndServe(ctx, ":"+cfg.Port)
			})
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	cmd.Flags().DurationVar(&cfg.BackgroundSave, "background-save", cfg.BackgroundSave, "snapshot interval of the memory backend (e.g. 5m, 30s), 0 disables")
	return cmd
}
