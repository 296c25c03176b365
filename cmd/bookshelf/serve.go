package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pollex.nl/bookshelf"
	"pollex.nl/bookshelf/graph"
	"pollex.nl/bookshelf/server"
	"pollex.nl/bookshelf/sqlstore"
)

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(conf.GetString("log-level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	config, err := serverConfig(conf)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, conf.GetString("store"), conf.GetString("sqlite-dsn"), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing store", zap.Error(err))
		}
	}()

	schema, err := graph.NewSchema(store, graph.Options{
		MaxDepth: config.MaxQueryDepth,
		Logger:   logger.Named("graphql"),
	})
	if err != nil {
		return err
	}

	srv, err := server.NewServer(config, schema, logger.Named("http"))
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}

func openStore(ctx context.Context, kind, dsn string, logger *zap.Logger) (bookshelf.Store, error) {
	switch kind {
	case "", "memory":
		logger.Info("using memory store")
		return bookshelf.NewMemoryStore(), nil
	case "sqlite":
		logger.Info("using sqlite store")
		return sqlstore.Open(ctx, dsn, logger.Named("sqlite"))
	}

	return nil, errors.Errorf("unknown store %q, want memory or sqlite", kind)
}
