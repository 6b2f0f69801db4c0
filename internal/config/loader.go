package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/heuermh/osc-looper/internal/logging"
	"github.com/heuermh/osc-looper/internal/transport"
)

// Default values for Config.
const (
	DefaultPath     = "looper.yaml"
	DefaultLogLevel = "warn"
	EnvPrefix       = "LOOPER_"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MIDI: MIDI{Target: transport.ModeDefault},
		Log:  Log{Level: DefaultLogLevel},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses the config file at path, applies LOOPER_*
// environment overrides and validates the result. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	return load(path, nil)
}

// ReadConfig is LoadConfig without validation, for callers that apply
// further overrides first.
func ReadConfig(path string) (*Config, error) {
	return read(path, nil)
}

// load is LoadConfig with an explicit environment; nil means the process
// environment.
func load(path string, environ map[string]string) (*Config, error) {
	cfg, err := read(path, environ)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string, environ map[string]string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if err := cfg.Target().Validate(); err != nil {
		var tv transport.ValidationError
		if errors.As(err, &tv) {
			return ValidationError{Field: "midi." + tv.Field, Message: tv.Message}
		}
		return err
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return ValidationError{Field: "log.level", Message: err.Error()}
	}
	return nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
