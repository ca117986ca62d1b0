// Package config loads runtime configuration for the retrieval core from the
// environment. All variables use the PKM_ prefix; a .env file in the working
// directory is honored when present.
package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Backend selector values.
const (
	BackendAuto   = "auto"
	BackendDense  = "dense"
	BackendNative = "native"
)

// Config validation errors.
var (
	ErrInvalidBackend    = errors.New("backend must be 'auto', 'dense' or 'native'")
	ErrInvalidTempMemory = errors.New("temp_memory_bytes must be positive")
	ErrInvalidLogFormat  = errors.New("log_format must be 'json' or 'text'")
	ErrInvalidLogLevel   = errors.New("log_level must be debug, info, warn, or error")
)

// Config holds the environment-driven settings of the retrieval core.
type Config struct {
	// Backend selects the search backend: auto probes for the native
	// library and accelerator once at startup, dense and native force a
	// variant.
	Backend string `envconfig:"BACKEND" default:"auto"`

	// NativeLibrary overrides the native library search path.
	NativeLibrary string `envconfig:"NATIVE_LIBRARY" default:""`

	// TempMemoryBytes is the device scratch memory budget for the native
	// backend's shared resources.
	TempMemoryBytes int64 `envconfig:"TEMP_MEMORY_BYTES" default:"1258291200"`

	// LogFormat selects the diagnostic log encoding.
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// LogLevel selects the minimum diagnostic log level.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Backend:         BackendAuto,
		TempMemoryBytes: 1200 * 1024 * 1024,
		LogFormat:       "text",
		LogLevel:        "info",
	}
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("pkm", &cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and returns an error if invalid.
func Validate(cfg *Config) error {
	switch cfg.Backend {
	case BackendAuto, BackendDense, BackendNative:
	default:
		return ErrInvalidBackend
	}
	if cfg.TempMemoryBytes <= 0 {
		return ErrInvalidTempMemory
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return ErrInvalidLogFormat
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}
