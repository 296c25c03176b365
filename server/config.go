package server

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid server config")

type Config struct {
	// BindAddress is the HTTP listen address.
	BindAddress string
	// Path is where the GraphQL endpoint (and the console) is mounted.
	Path string
	// EnableGraphiQL serves the in-browser console on GET requests that accept HTML.
	EnableGraphiQL bool
	// CORSOrigins lists the allowed origins. "*" allows any.
	CORSOrigins []string
	// MaxQueryDepth limits document nesting.
	MaxQueryDepth int
	// ShutdownTimeout bounds graceful shutdown once the context is cancelled.
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BindAddress:     ":5000",
		Path:            "/graphql",
		EnableGraphiQL:  true,
		CORSOrigins:     []string{"*"},
		MaxQueryDepth:   10,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate fills in defaults for zero values and rejects the rest of the bad
// values.
func (c *Config) Validate() error {
	if c.BindAddress == "" {
		c.BindAddress = ":5000"
	}

	if c.Path == "" {
		c.Path = "/graphql"
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.Wrapf(ErrInvalidConfig, "path %q must start with /", c.Path)
	}
	if c.Path == healthPath || c.Path == metricsPath {
		return errors.Wrapf(ErrInvalidConfig, "path %q is reserved", c.Path)
	}

	if c.MaxQueryDepth == 0 {
		c.MaxQueryDepth = 10
	}
	if c.MaxQueryDepth < 1 || c.MaxQueryDepth > 50 {
		return errors.Wrap(ErrInvalidConfig, "max query depth must be between 1 and 50")
	}

	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.ShutdownTimeout < 0 {
		return errors.Wrap(ErrInvalidConfig, "shutdown timeout must be positive")
	}

	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}

	return nil
}
