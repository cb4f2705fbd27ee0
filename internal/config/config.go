// Package config provides configuration for the response wrapper service.
//
// Settings are resolved in three layers: built-in defaults, an optional
// YAML settings file, then environment variables. The resulting Config is
// constructed once at process start and passed by reference to every
// component that needs it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// Defaults for settings not supplied by file or environment.
const (
	DefaultListenAddr      = ":8000"
	DefaultLogLevel        = "info"
	DefaultModel           = "text-davinci-003"
	DefaultOpenAIBaseURL   = "https://api.openai.com/v1"
	DefaultTokenTTL        = 30 * time.Minute
	DefaultGenerateTimeout = 60 * time.Second
	DefaultMaxConns        = 25
)

// Duration wraps time.Duration so settings files and environment
// variables can use forms like "30m" or "90s".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for settings files.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// DefaultValidModels is the allow-list used when VALID_OPENAI_MODELS is unset.
var DefaultValidModels = []string{
	"text-davinci-003",
	"gpt-3.5-turbo",
	"gpt-4o-mini",
}

// Config holds all process-wide settings.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
	LogLevel   string `env:"LOG_LEVEL" yaml:"log_level"`

	// Debug disables the authentication gate for local execution.
	Debug bool `env:"DEBUG" yaml:"debug"`

	// DatabaseURL is either a postgres:// DSN or a path to a SQLite file.
	DatabaseURL string `env:"DATABASE_URL" yaml:"database_url"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" yaml:"db_max_conns"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY" yaml:"openai_api_key"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" yaml:"openai_base_url"`

	// SecretKey signs bearer tokens. Required unless Debug is set.
	SecretKey string   `env:"SECRET_KEY" yaml:"secret_key"`
	TokenTTL  Duration `env:"TOKEN_TTL" yaml:"token_ttl"`

	// ValidModels is the allow-list for generation requests.
	ValidModels []string `env:"VALID_OPENAI_MODELS" envSeparator:"," yaml:"valid_models"`

	GenerateTimeout Duration `env:"GENERATE_TIMEOUT" yaml:"generate_timeout"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," yaml:"cors_origins"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		ListenAddr:      DefaultListenAddr,
		LogLevel:        DefaultLogLevel,
		DatabaseURL:     "app.db",
		DBMaxConns:      DefaultMaxConns,
		OpenAIBaseURL:   DefaultOpenAIBaseURL,
		TokenTTL:        Duration(DefaultTokenTTL),
		ValidModels:     append([]string(nil), DefaultValidModels...),
		GenerateTimeout: Duration(DefaultGenerateTimeout),
		CORSOrigins:     []string{"*"},
	}
}

// Load builds a Config from defaults, the optional settings file at path,
// and environment variables, in that order of precedence. An empty path
// skips the file layer; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env-only configuration.
		case err != nil:
			return nil, fmt.Errorf("read settings file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse settings file: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	return cfg, nil
}

// Validate checks that settings required for serving are present.
func (c *Config) Validate() error {
	if c.SecretKey == "" && !c.Debug {
		return fmt.Errorf("SECRET_KEY is required when auth is enabled")
	}
	if len(c.ValidModels) == 0 {
		return fmt.Errorf("at least one valid model must be configured")
	}
	return nil
}
