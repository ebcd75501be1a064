// Package config loads proctor settings from the config file, the command
// line and first-run prompts.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ayoisaiah/proctor/debounce"
	"github.com/ayoisaiah/proctor/internal/models"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Detection DetectionConfig
		Server    ServerConfig
		Log       LogConfig
		Notify    NotifyConfig
		System    SystemConfig
		Session   SessionConfig
		Display   DisplayConfig
		GeoIP     GeoIPConfig
		// prompted is set when first-run answers must seed the new file
		prompted bool
	}

	// ServerConfig holds HTTP server settings.
	ServerConfig struct {
		Host          string
		Port          int
		SweepInterval time.Duration
	}

	// SessionConfig holds session lifecycle settings.
	SessionConfig struct {
		Expiry time.Duration
	}

	// DetectionConfig holds the debounce thresholds and windows.
	DetectionConfig struct {
		ProhibitedClasses        map[string]models.Category
		FocusThreshold           float64
		NoFaceSustain            time.Duration
		NoFaceSustainReliable    time.Duration
		FocusLostSustain         time.Duration
		FocusLostSustainReliable time.Duration
		MultipleFacesCooldown    time.Duration
		DeviceCooldown           time.Duration
		MaterialsCooldown        time.Duration
	}

	// LogConfig holds logging settings.
	LogConfig struct {
		Level      string
		Format     string
		MaxSize    int
		MaxBackups int
		MaxAge     int
	}

	// NotifyConfig holds violation fan-out settings.
	NotifyConfig struct {
		AMQPURL  string
		Exchange string
		Command  string
		Desktop  bool
		Sound    bool
	}

	// GeoIPConfig locates the optional country database.
	GeoIPConfig struct {
		Database string
	}

	// DisplayConfig holds console output settings.
	DisplayConfig struct {
		DarkTheme bool
	}

	// SystemConfig holds file locations.
	SystemConfig struct {
		ConfigPath string
		DBPath     string
		LogPath    string
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Debounce converts the detection settings for the debouncer.
func (d DetectionConfig) Debounce() debounce.Config {
	classes := d.ProhibitedClasses
	if len(classes) == 0 {
		classes = debounce.DefaultClasses()
	}

	return debounce.Config{
		Classes:                  classes,
		FocusThreshold:           d.FocusThreshold,
		NoFaceSustain:            d.NoFaceSustain,
		NoFaceSustainReliable:    d.NoFaceSustainReliable,
		FocusLostSustain:         d.FocusLostSustain,
		FocusLostSustainReliable: d.FocusLostSustainReliable,
		MultipleFacesCooldown:    d.MultipleFacesCooldown,
		DeviceCooldown:           d.DeviceCooldown,
		MaterialsCooldown:        d.MaterialsCooldown,
	}
}

// New creates a Config, applies opts in order and validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// WithPaths sets the file locations.
func WithPaths(configPath, dbPath, logPath string) Option {
	return func(c *Config) error {
		c.System.ConfigPath = configPath
		c.System.DBPath = dbPath
		c.System.LogPath = logPath

		return nil
	}
}
