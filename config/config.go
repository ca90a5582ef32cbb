package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. WXAPIS_SERVICES_NODE_URL.
const EnvPrefix = "WXAPIS"

// Load loads the configuration from file and environment.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"services.assets.url", "services.node.url", "services.state.url"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".wxapis"))
		}

		// Check /etc
		v.AddConfigPath("/etc/wxapis/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// HTTP defaults
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.user_agent", "wxapis")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "wxapis")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	services := []struct {
		key string
		url string
	}{
		{"services.assets.url", cfg.Services.Assets.URL},
		{"services.node.url", cfg.Services.Node.URL},
		{"services.state.url", cfg.Services.State.URL},
	}

	configured := 0
	for _, svc := range services {
		if svc.url == "" {
			continue
		}
		configured++
		if err := validateURL(svc.url); err != nil {
			return fmt.Errorf("%s: %w", svc.key, err)
		}
	}
	if configured == 0 {
		return fmt.Errorf("at least one of services.assets.url, services.node.url or services.state.url is required")
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", cfg.HTTP.Timeout)
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filters.%s: expression is empty", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url %q must be absolute http(s)", raw)
	}
	return nil
}
