// Package config loads pulsehr settings from <home>/config.yaml, .env files
// and PULSEHR_* environment variables, in that order of increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

const (
	// DefaultAPIURL is where the HR API listens in a local development setup.
	DefaultAPIURL = "http://localhost:5000/api"

	// FileName is the config file inside the home directory.
	FileName = "config.yaml"

	// TokenFileName holds the persisted bearer token.
	TokenFileName = "token"
)

// DefaultEnvFiles are loaded from the working directory when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

var validate = validator.New()

// Config is the full client configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Logging       LoggingConfig       `yaml:"logging"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Defaults      DefaultsConfig      `yaml:"defaults"`
}

type APIConfig struct {
	URL        string        `yaml:"url" env:"PULSEHR_API_URL" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" env:"PULSEHR_TIMEOUT" validate:"gt=0"`
	MaxRetries int           `yaml:"max_retries" env:"PULSEHR_MAX_RETRIES" validate:"gte=0,lte=10"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"PULSEHR_LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" env:"PULSEHR_LOG_FORMAT" validate:"oneof=text json"`
}

type NotificationsConfig struct {
	// Interval between background refreshes. Zero disables polling.
	Interval time.Duration `yaml:"interval" env:"PULSEHR_NOTIFY_INTERVAL" validate:"gte=0"`
}

type DefaultsConfig struct {
	Format  string `yaml:"format" validate:"oneof=text json yaml"`
	NoColor bool   `yaml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:        DefaultAPIURL,
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Defaults: DefaultsConfig{
			Format: "text",
		},
	}
}

// Home returns the pulsehr home directory: $PULSEHR_HOME or ~/.pulsehr.
func Home() (string, error) {
	if h := os.Getenv("PULSEHR_HOME"); h != "" {
		return h, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to get home directory", err)
	}
	return filepath.Join(userHome, ".pulsehr"), nil
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// LoadEnv loads the env files that exist and reports how many were read.
// Variables already present in the environment win.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads <home>/config.yaml if it exists, then applies environment
// overrides and validates the result. A missing file is not an error.
func Load(home string) (*Config, error) {
	cfg, err := ReadFile(Path(home))
	if err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "invalid environment override", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile returns the defaults overlaid with the file at path, without
// environment overrides or validation. A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewFileUnmarshalError(path, "YAML", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read config", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "failed to marshal config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write config", err)
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
	} else {
		fields = append(fields, err.Error())
	}
	return errors.New(errors.ErrCodeConfigInvalid, "invalid configuration: "+strings.Join(fields, ", ")).
		WithSuggestion("Run 'pulsehr config view' to inspect the effective settings")
}

type accessor struct {
	get func(*Config) string
	set func(*Config, string) error
}

var accessors = map[string]accessor{
	"api.url": {
		get: func(c *Config) string { return c.API.URL },
		set: func(c *Config, v string) error { c.API.URL = v; return nil },
	},
	"api.timeout": {
		get: func(c *Config) string { return c.API.Timeout.String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			c.API.Timeout = d
			return err
		},
	},
	"api.max_retries": {
		get: func(c *Config) string { return strconv.Itoa(c.API.MaxRetries) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			c.API.MaxRetries = n
			return err
		},
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	},
	"notifications.interval": {
		get: func(c *Config) string { return c.Notifications.Interval.String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			c.Notifications.Interval = d
			return err
		},
	},
	"defaults.format": {
		get: func(c *Config) string { return c.Defaults.Format },
		set: func(c *Config, v string) error { c.Defaults.Format = v; return nil },
	},
	"defaults.no_color": {
		get: func(c *Config) string { return strconv.FormatBool(c.Defaults.NoColor) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			c.Defaults.NoColor = b
			return err
		},
	},
}

// Keys lists every key accepted by Get and Set.
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value for a dotted key.
func (c *Config) Get(key string) (string, error) {
	a, ok := accessors[key]
	if !ok {
		return "", unknownKey(key)
	}
	return a.get(c), nil
}

// Set parses value into the dotted key and revalidates.
func (c *Config) Set(key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return unknownKey(key)
	}
	if err := a.set(c, value); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid value for %s", key), err)
	}
	return c.Validate()
}

func unknownKey(key string) error {
	return errors.New(errors.ErrCodeConfigKey, fmt.Sprintf("unknown configuration key: %s", key)).
		WithSuggestion("Valid keys: " + strings.Join(Keys(), ", "))
}
