// Package config loads navd settings from defaults, an optional navd.yaml and
// NAVD_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"navd/internal/storage"
)

// EnvPrefix is prepended to every environment override, e.g. NAVD_SOURCE_URL.
const EnvPrefix = "NAVD"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type Source struct {
	URL      string
	File     string
	Timeout  time.Duration
	CacheTTL time.Duration
	Watch    bool
}

type Store struct {
	Driver string
	Path   string
}

type Momentum struct {
	Timezone string
	TTL      time.Duration
}

type Log struct {
	Level  string
	Format string
}

// Config is the resolved application configuration.
type Config struct {
	Server   Server
	Source   Source
	Store    Store
	Momentum Momentum
	Log      Log
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("source.url", "")
	v.SetDefault("source.file", "")
	v.SetDefault("source.timeout", 5*time.Second)
	v.SetDefault("source.cache_ttl", 30*time.Second)
	v.SetDefault("source.watch", false)
	v.SetDefault("store.driver", storage.DriverMemory)
	v.SetDefault("store.path", ".navd")
	v.SetDefault("momentum.timezone", "Local")
	v.SetDefault("momentum.ttl", 72*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance with defaults and environment binding set up.
// When cfgFile is empty, navd.yaml is searched in the working directory and
// in $HOME/.config/navd.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("navd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "navd"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and resolves the settings. A missing
// file is only an error when it was named explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		Server: Server{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Source: Source{
			URL:      strings.TrimSpace(v.GetString("source.url")),
			File:     strings.TrimSpace(v.GetString("source.file")),
			Timeout:  v.GetDuration("source.timeout"),
			CacheTTL: v.GetDuration("source.cache_ttl"),
			Watch:    v.GetBool("source.watch"),
		},
		Store: Store{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			Path:   v.GetString("store.path"),
		},
		Momentum: Momentum{
			Timezone: v.GetString("momentum.timezone"),
			TTL:      v.GetDuration("momentum.ttl"),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}, nil
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalid, c.Store.Driver)
	}
	if c.Store.Driver != storage.DriverMemory && c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is required for the %s driver", ErrInvalid, c.Store.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("%w: source.timeout must be positive", ErrInvalid)
	}
	return nil
}

// ValidateServe additionally requires a navigation source.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Source.URL == "" && c.Source.File == "" {
		return fmt.Errorf("%w: set source.url or source.file", ErrInvalid)
	}
	if c.Source.Watch && c.Source.File == "" {
		return fmt.Errorf("%w: source.watch requires source.file", ErrInvalid)
	}
	return nil
}

// Location resolves the momentum time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Momentum.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: momentum.timezone: %w", ErrInvalid, err)
	}
	return loc, nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return level, nil
}
