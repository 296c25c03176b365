package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid default config", config: DefaultConfig()},
		{
			name: "valid custom config",
			config: Config{
				BindAddress:     ":9090",
				Path:            "/api/graphql",
				EnableGraphiQL:  false,
				CORSOrigins:     []string{"https://example.com"},
				MaxQueryDepth:   15,
				ShutdownTimeout: time.Second,
			},
		},
		{name: "zero config gets defaults", config: Config{}},
		{name: "path without leading slash", config: Config{Path: "graphql"}, wantErr: true},
		{name: "reserved path", config: Config{Path: "/metrics"}, wantErr: true},
		{name: "max depth too high", config: Config{MaxQueryDepth: 100}, wantErr: true},
		{name: "negative max depth", config: Config{MaxQueryDepth: -1}, wantErr: true},
		{name: "negative shutdown timeout", config: Config{ShutdownTimeout: -time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var config Config
	assert.NoError(t, config.Validate())

	assert.Equal(t, ":5000", config.BindAddress)
	assert.Equal(t, "/graphql", config.Path)
	assert.Equal(t, 10, config.MaxQueryDepth)
	assert.Equal(t, 10*time.Second, config.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, config.CORSOrigins)
}
