// Package config provides configuration for the ryst command line tools.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (OPENAI_API_KEY, OPENAI_API_ORG)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"net/http"
	"time"

	"github.com/embyrai/ryst/pkg/openai"
)

// Config holds all configuration for the ryst CLI.
type Config struct {
	// APIKey authenticates against the API. Required (directly, via
	// APIKeyFile, or via the OPENAI_API_KEY environment variable).
	APIKey string `yaml:"api_key"`

	// APIKeyFile is a _file variant for api_key.
	APIKeyFile string `yaml:"api_key_file"`

	// Organization is the optional OpenAI-Organization header value.
	Organization string `yaml:"organization"`

	// BaseURL overrides the API host, e.g. for a local mock backend.
	BaseURL string `yaml:"base_url"`

	// Model is the model name used for requests. default: "gpt-3.5-turbo"
	Model string `yaml:"model"`

	// Timeout bounds non-streaming calls. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Model: "gpt-3.5-turbo",
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// ClientConfig maps the CLI configuration onto the per-call SDK config.
func (c *Config) ClientConfig() openai.Config {
	cfg := openai.Config{
		APIKey:       c.APIKey,
		Organization: c.Organization,
		BaseURL:      c.BaseURL,
	}
	if c.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return cfg
}
