// Package graph binds the bookshelf records to a GraphQL schema.
package graph

import (
	"context"
	_ "embed"

	"github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pollex.nl/bookshelf"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by NewSchema.
func SDL() string {
	return schemaSDL
}

type Options struct {
	// MaxDepth rejects documents nested deeper than this. Zero disables the check.
	MaxDepth int
	// MaxParallelism bounds the resolvers run concurrently for one request.
	MaxParallelism int
	Logger         *zap.Logger
}

// NewSchema parses the schema and binds its fields to resolvers reading from
// store.
func NewSchema(store bookshelf.Store, opts Options) (*graphql.Schema, error) {
	if store == nil {
		return nil, errors.New("graph: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxParallelism <= 0 {
		opts.MaxParallelism = 10
	}

	schemaOpts := []graphql.SchemaOpt{
		graphql.MaxParallelism(opts.MaxParallelism),
		graphql.Logger(&panicLogger{logger: opts.Logger}),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}

	schema, err := graphql.ParseSchema(schemaSDL, &Resolver{store: store}, schemaOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "graph: parse schema")
	}

	return schema, nil
}

// panicLogger reports resolver panics; the engine turns the panic itself into
// a field error.
type panicLogger struct {
	logger *zap.Logger
}

func (l *panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.logger.Error("graphql: resolver panicked", zap.Any("panic", value), zap.Stack("stack"))
}
