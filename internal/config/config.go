// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/rewind.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultMigrationsPath            = "file://./migrations"
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultRecordingsPath            = "./recordings"
	defaultRescanInterval            = 5 * time.Minute
	defaultPixelsPerHour             = 60.0
	defaultMaxZoomFactor             = 6.0
	defaultViewportWidth             = 1280.0
	defaultProgressPollInterval      = 150 * time.Millisecond
	envPrefix                        = "REWIND"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	Recordings RecordingsConfig
	Timeline   TimelineConfig
	Player     PlayerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	MigrationsPath    string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// RecordingsConfig holds recording library configuration
type RecordingsConfig struct {
	LibraryPath      string
	RescanInterval   time.Duration
	SupportedFormats []string
}

// TimelineConfig holds timeline geometry configuration
type TimelineConfig struct {
	// PixelsPerHour is the horizontal scale of the timeline strip at zoom level 1.
	PixelsPerHour float64
	// MaxZoomFactor caps the zoom level relative to the base scale.
	MaxZoomFactor float64
	// ViewportWidth is the initial visible width in pixels until a client reports its own.
	ViewportWidth float64
}

// PlayerConfig holds playback session configuration
type PlayerConfig struct {
	// ProgressPollInterval is the cadence at which playback progress is published.
	ProgressPollInterval time.Duration
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/rewind")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional, defaults and env vars cover the rest
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	// Recordings defaults
	v.SetDefault("recordings.librarypath", defaultRecordingsPath)
	v.SetDefault("recordings.rescaninterval", defaultRescanInterval)
	v.SetDefault("recordings.supportedformats", []string{"mp4", "mkv", "ts", "webm"})

	// Timeline defaults
	v.SetDefault("timeline.pixelsperhour", defaultPixelsPerHour)
	v.SetDefault("timeline.maxzoomfactor", defaultMaxZoomFactor)
	v.SetDefault("timeline.viewportwidth", defaultViewportWidth)

	// Player defaults
	v.SetDefault("player.progresspollinterval", defaultProgressPollInterval)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Timeline.PixelsPerHour <= 0 {
		return fmt.Errorf("invalid pixels per hour: %v (must be > 0)", c.Timeline.PixelsPerHour)
	}
	if c.Timeline.MaxZoomFactor < 1 {
		return fmt.Errorf("invalid max zoom factor: %v (must be >= 1)", c.Timeline.MaxZoomFactor)
	}
	if c.Timeline.ViewportWidth <= 0 {
		return fmt.Errorf("invalid viewport width: %v (must be > 0)", c.Timeline.ViewportWidth)
	}
	if c.Player.ProgressPollInterval <= 0 {
		return fmt.Errorf("invalid progress poll interval: %v (must be > 0)", c.Player.ProgressPollInterval)
	}
	if c.Recordings.RescanInterval <= 0 {
		return fmt.Errorf("invalid rescan interval: %v (must be > 0)", c.Recordings.RescanInterval)
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
