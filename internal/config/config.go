// Package config provides configuration management for touchline using
// Viper. It supports configuration from files, environment variables, and
// defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort      = 8080
	defaultServerTimeout   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxIdleTime = 30 * time.Minute

	defaultHTTPTimeout      = 60 * time.Second
	defaultPlaylistCron     = "0 0 */6 * * *" // every 6 hours
	defaultGuideCron        = "0 30 */6 * * *"
	defaultHighlightsCron   = "0 */5 * * * *" // every 5 minutes
	defaultHighlightsTTL    = 5 * time.Minute
	defaultGoalPollInterval = 30 * time.Second
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Refresh    RefreshConfig    `mapstructure:"refresh"`
	Highlights HighlightsConfig `mapstructure:"highlights"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"dsn" masq:"secret"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
}

// RefreshConfig holds the cron cadences for background refreshes and the
// timeout for upstream fetches.
type RefreshConfig struct {
	PlaylistCron   string        `mapstructure:"playlist_cron"`
	GuideCron      string        `mapstructure:"guide_cron"`
	HighlightsCron string        `mapstructure:"highlights_cron"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// HighlightsConfig holds the football data API configuration.
type HighlightsConfig struct {
	// FootballDataURL is the primary fixture API root.
	FootballDataURL   string `mapstructure:"football_data_url"`
	FootballDataToken string `mapstructure:"football_data_token" masq:"secret"`

	// SportsDBURL is the secondary fixture API root.
	SportsDBURL string `mapstructure:"sportsdb_url"`
	SportsDBKey string `mapstructure:"sportsdb_key" masq:"secret"`

	// CacheTTL bounds how stale a served fixture list can be.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// GoalPollInterval is the live score polling cadence.
	GoalPollInterval time.Duration `mapstructure:"goal_poll_interval"`

	// PriorityTablePath points at the YAML league/team ranking table.
	// Empty uses the built-in table.
	PriorityTablePath string `mapstructure:"priority_table_path"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration. They are
// prefixed with TOUCHLINE_ and use underscores for nesting, for example
// TOUCHLINE_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/touchline")
		v.AddConfigPath("$HOME/.touchline")
	}

	v.SetEnvPrefix("TOUCHLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars carry it.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "touchline.db")
	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", defaultConnMaxIdleTime)
	v.SetDefault("database.log_level", "warn")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Refresh defaults
	v.SetDefault("refresh.playlist_cron", defaultPlaylistCron)
	v.SetDefault("refresh.guide_cron", defaultGuideCron)
	v.SetDefault("refresh.highlights_cron", defaultHighlightsCron)
	v.SetDefault("refresh.http_timeout", defaultHTTPTimeout)

	// Highlights defaults
	v.SetDefault("highlights.football_data_url", "https://api.football-data.org/v4")
	v.SetDefault("highlights.football_data_token", "")
	v.SetDefault("highlights.sportsdb_url", "https://www.thesportsdb.com/api/v1/json")
	v.SetDefault("highlights.sportsdb_key", "")
	v.SetDefault("highlights.cache_ttl", defaultHighlightsTTL)
	v.SetDefault("highlights.goal_poll_interval", defaultGoalPollInterval)
	v.SetDefault("highlights.priority_table_path", "")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be one of: sqlite, postgres, mysql")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	// Cron specs are validated here so a typo fails startup, not the
	// first scheduled run.
	cronParser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for field, spec := range map[string]string{
		"refresh.playlist_cron":   c.Refresh.PlaylistCron,
		"refresh.guide_cron":      c.Refresh.GuideCron,
		"refresh.highlights_cron": c.Refresh.HighlightsCron,
	} {
		if _, err := cronParser.Parse(spec); err != nil {
			return fmt.Errorf("%s: invalid cron spec %q: %w", field, spec, err)
		}
	}

	if c.Highlights.CacheTTL <= 0 {
		return fmt.Errorf("highlights.cache_ttl must be positive")
	}
	if c.Highlights.GoalPollInterval <= 0 {
		return fmt.Errorf("highlights.goal_poll_interval must be positive")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
