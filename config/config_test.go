package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Services: ServicesConfig{
			Node: ServiceConfig{URL: "https://nodes.wavesnodes.com"},
		},
		HTTP:    HTTPConfig{Timeout: 30 * time.Second},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Namespace: "wxapis"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "no services",
			mutate:  func(cfg *Config) { cfg.Services = ServicesConfig{} },
			wantErr: "at least one of",
		},
		{
			name:    "relative service url",
			mutate:  func(cfg *Config) { cfg.Services.State.URL = "state.example.com/api" },
			wantErr: "services.state.url",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(cfg *Config) { cfg.Services.Assets.URL = "ftp://assets.example.com" },
			wantErr: "services.assets.url",
		},
		{
			name:    "zero timeout",
			mutate:  func(cfg *Config) { cfg.HTTP.Timeout = 0 },
			wantErr: "http.timeout",
		},
		{
			name:    "empty filter",
			mutate:  func(cfg *Config) { cfg.Filters = FilterConfig{"big": "  "} },
			wantErr: "filters.big",
		},
		{
			name:    "invalid level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "trace" },
			wantErr: "invalid logging level",
		},
		{
			name:    "invalid format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
		{
			name: "metrics without namespace",
			mutate: func(cfg *Config) {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Namespace = ""
			},
			wantErr: "metrics.namespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
services:
  node:
    url: https://nodes.wavesnodes.com
  state:
    url: https://state.example.com/api/v1
http:
  timeout: 5s
filters:
  large_transfers: "any(Transfers, .Amount > 1000)"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://nodes.wavesnodes.com", cfg.Services.Node.URL)
	assert.Equal(t, "https://state.example.com/api/v1", cfg.Services.State.URL)
	assert.Empty(t, cfg.Services.Assets.URL)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "wxapis", cfg.HTTP.UserAgent)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "any(Transfers, .Amount > 1000)", cfg.Filters["large_transfers"])
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  node:\n    url: https://nodes.wavesnodes.com\n"), 0o600))

	t.Setenv("WXAPIS_SERVICES_ASSETS_URL", "https://assets.example.com/v0/assets")
	t.Setenv("WXAPIS_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://assets.example.com/v0/assets", cfg.Services.Assets.URL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("file without services", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}
