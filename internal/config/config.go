// Package config loads the server configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
// Command-line flags are applied on top by the caller before Validate.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string `yaml:"addr" validate:"required"`

	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path" validate:"required"`

	// PerPage is the number of rows on one listing page.
	PerPage int `yaml:"per_page" validate:"min=1,max=100"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           ":5000",
		DBPath:         "./data/insurance.db",
		PerPage:        3,
		LogLevel:       "info",
		MetricsEnabled: true,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load returns Default overlaid with the YAML file at path (if path is not
// empty) and then with environment variables. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from ADDR, DB_PATH, PER_PAGE, LOG_LEVEL and
// METRICS_ENABLED when they are set and non-empty.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	if v, ok := get("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := get("DB_PATH"); ok {
		c.DBPath = v
	}
	if v, ok := get("PER_PAGE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid PER_PAGE env variable")
		}
		c.PerPage = n
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("METRICS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("invalid METRICS_ENABLED env variable")
		}
		c.MetricsEnabled = b
	}
	return nil
}

// Validate checks the field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s fails %q (value %v)", fe.Field(), fe.ActualTag(), fe.Value())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
