// Package server exposes a GraphQL schema over HTTP together with a health
// check, Prometheus metrics and an optional GraphiQL console.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

// ErrAlreadyRunning is returned by Start and Serve on a running server.
var ErrAlreadyRunning = errors.New("server already running")

type Server struct {
	config  Config
	logger  *zap.Logger
	metrics *metrics
	handler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
}

func NewServer(config Config, schema *graphql.Schema, logger *zap.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, errors.New("server: schema is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:  config,
		logger:  logger,
		metrics: newMetrics(),
	}

	mux := http.NewServeMux()
	mux.Handle(config.Path, newGraphQLHandler(schema, config, logger))
	mux.HandleFunc(healthPath, s.handleHealth)
	mux.Handle(metricsPath, s.metrics.handler())

	var handler http.Handler = mux
	handler = withCORS(config.CORSOrigins, handler)
	handler = s.metrics.instrument(handler)
	handler = withAccessLog(logger, handler)
	s.handler = withRequestID(handler)

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.BindAddress)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.config.BindAddress)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully within
// the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		_ = ln.Close()
		return ErrAlreadyRunning
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("server listening",
		zap.String("address", ln.Addr().String()),
		zap.String("path", s.config.Path),
		zap.Bool("graphiql", s.config.EnableGraphiQL))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		return s.Stop(s.config.ShutdownTimeout)
	case err := <-errCh:
		s.clear()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	}
}

// Stop shuts the server down. Stopping a server that is not running is a no-op.
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.logger.Info("server stopping")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	s.clear()
	if err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpServer != nil
}

func (s *Server) clear() {
	s.mu.Lock()
	s.httpServer = nil
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
