// Package config provides configuration management for the BSI exporter.
// Configuration is loaded from defaults, then an optional TOML file in the
// data directory, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// Default values
	DefaultPort             = 8788
	DefaultLogLevel         = "info"
	DefaultDataDir          = ".bsiexport"
	DefaultSampleRate       = 30.0
	DefaultTranslationScale = 0.01
	DefaultRootName         = "root_point"

	// Environment variable names
	EnvPort             = "BSI_PORT"
	EnvLogLevel         = "BSI_LOG_LEVEL"
	EnvDataDir          = "BSI_DATA_DIR"
	EnvSampleRate       = "BSI_SAMPLE_RATE"
	EnvTranslationScale = "BSI_TRANSLATION_SCALE"
	EnvRootName         = "BSI_ROOT_NAME"
	EnvHeadless         = "BSI_HEADLESS"

	// Filenames inside the data directory
	DBFilename     = "bsiexport.db"
	ConfigFilename = "config.toml"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	SampleRate() float64
	TranslationScale() float64
	RootName() string
	Headless() bool
}

// FileConfig is the TOML file layout. Zero values leave the default in place.
type FileConfig struct {
	Port             int     `toml:"port"`
	LogLevel         string  `toml:"log_level"`
	SampleRate       float64 `toml:"sample_rate"`
	TranslationScale float64 `toml:"translation_scale"`
	RootName         string  `toml:"root_name"`
	Headless         *bool   `toml:"headless"`
}

// EnvConfig reads configuration from the config file and environment variables
type EnvConfig struct {
	port             int
	logLevel         string
	dataDir          string
	sampleRate       float64
	translationScale float64
	rootName         string
	headless         bool
}

// New creates a new EnvConfig with defaults, file and environment overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:             DefaultPort,
		logLevel:         DefaultLogLevel,
		dataDir:          defaultDataDir(),
		sampleRate:       DefaultSampleRate,
		translationScale: DefaultTranslationScale,
		rootName:         DefaultRootName,
		headless:         true,
	}

	// The data directory decides where the config file lives
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := cfg.loadFile(filepath.Join(cfg.dataDir, ConfigFilename)); err != nil {
		return nil, err
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EnvConfig) loadFile(path string) error {
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.SampleRate != 0 {
		c.sampleRate = fc.SampleRate
	}
	if fc.TranslationScale != 0 {
		c.translationScale = fc.TranslationScale
	}
	if fc.RootName != "" {
		c.rootName = fc.RootName
	}
	if fc.Headless != nil {
		c.headless = *fc.Headless
	}
	return nil
}

func (c *EnvConfig) loadEnv() error {
	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		c.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		c.logLevel = ll
	}

	if sr := os.Getenv(EnvSampleRate); sr != "" {
		rate, err := strconv.ParseFloat(sr, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSampleRate, err)
		}
		c.sampleRate = rate
	}

	if ts := os.Getenv(EnvTranslationScale); ts != "" {
		scale, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTranslationScale, err)
		}
		c.translationScale = scale
	}

	if rn := os.Getenv(EnvRootName); rn != "" {
		c.rootName = rn
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(strings.TrimSpace(h))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		c.headless = headless
	}
	return nil
}

func (c *EnvConfig) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port %d: port must be between 1 and 65535", c.port)
	}
	if c.sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %v: must be positive", c.sampleRate)
	}
	if c.translationScale <= 0 {
		return fmt.Errorf("invalid translation scale %v: must be positive", c.translationScale)
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// SampleRate returns the samples per second used for stream times.
// Keep the default unless downstream consumers agree on another rate.
func (c *EnvConfig) SampleRate() float64 {
	return c.sampleRate
}

func (c *EnvConfig) TranslationScale() float64 {
	return c.translationScale
}

// RootName returns the name of the node exported as subtree root
func (c *EnvConfig) RootName() string {
	return c.rootName
}

// Headless reports whether the tray icon is disabled
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
