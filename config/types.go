package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Services ServicesConfig `mapstructure:"services"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Filters  FilterConfig   `mapstructure:"filters"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServicesConfig holds the base URL of every upstream service.
// A service left empty is not available to commands.
type ServicesConfig struct {
	Assets ServiceConfig `mapstructure:"assets"`
	Node   ServiceConfig `mapstructure:"node"`
	State  ServiceConfig `mapstructure:"state"`
}

// ServiceConfig holds one service's connection details
type ServiceConfig struct {
	URL string `mapstructure:"url"`
}

// HTTPConfig contains settings shared by all service clients
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// FilterConfig maps filter names to state-change filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// MetricsConfig controls client request metrics
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}
