// Package config loads and validates the server configuration using Viper.
//
// Configuration is layered: built-in defaults < YAML config file <
// environment variables. Environment variables use the SNIPPETBIN_ prefix
// (e.g. SNIPPETBIN_SERVER_PORT overrides server.port in the YAML). The same
// binary runs with a config.yaml in local development and with pure
// environment variables in containerized deployments.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds token-issuance configuration. JWTSecret has no default:
// the server refuses to start without one.
//
// BootstrapAdminPassword solves the first-staff-user problem: user accounts
// can only be created by staff, so an empty database would otherwise be
// unusable. When set, the server creates a staff account
// (BootstrapAdminUsername) with that password on startup if the username
// does not exist yet. Leave it empty once the instance is provisioned.
type AuthConfig struct {
	JWTSecret              string        `mapstructure:"jwt_secret"`
	TokenTTL               time.Duration `mapstructure:"token_ttl"`
	BootstrapAdminUsername string        `mapstructure:"bootstrap_admin_username"`
	BootstrapAdminPassword string        `mapstructure:"bootstrap_admin_password"`
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// TelemetryConfig holds the Prometheus side-channel listener configuration.
type TelemetryConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory (or configPath when non-empty), and SNIPPETBIN_*
// environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("database.path", "data/snippetbin.db")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.bootstrap_admin_username", "admin")
	v.SetDefault("logging.level", "info")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.metrics_port", 9090)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SNIPPETBIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine — defaults plus env vars are a
		// complete configuration. Any other read error is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret (SNIPPETBIN_AUTH_JWT_SECRET) is required")
	}
	if c.Database.Path == "" {
		return errors.New("config: database.path must not be empty")
	}
	return nil
}
