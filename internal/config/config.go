package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds every cartstore setting.
type Config struct {
	// HistoryLimit caps the snapshots kept for undo/redo. Zero keeps all.
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"0"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogFormat is text or json.
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// ListenerScript is an optional Lua on-dispatch listener.
	ListenerScript string `env:"LISTENER_SCRIPT"`

	// ListenerTimeout bounds each listener call. Zero disables it.
	ListenerTimeout time.Duration `env:"LISTENER_TIMEOUT" envDefault:"0s"`

	// WarnUnknownEvents logs unrecognized event types.
	WarnUnknownEvents bool `env:"WARN_UNKNOWN_EVENTS" envDefault:"true"`

	// RequireLogin rejects cart changes while logged out.
	RequireLogin bool `env:"REQUIRE_LOGIN" envDefault:"false"`
}

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "CARTSTORE_"

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in defaults.
func Default() Config {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		panic(fmt.Sprintf("config defaults are invalid: %v", err))
	}
	return cfg
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("%w: history limit must not be negative, got %d", ErrValidationFailed, c.HistoryLimit)
	}
	if c.ListenerTimeout < 0 {
		return fmt.Errorf("%w: listener timeout must not be negative", ErrValidationFailed)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrValidationFailed, c.LogFormat)
	}
	return nil
}

// Level returns the slog level for LogLevel. Invalid values map to info.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrValidationFailed, s)
	}
}
