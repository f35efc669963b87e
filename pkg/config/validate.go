package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// api_key is required in some form.
	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("api_key is required (set api_key, api_key_file, or OPENAI_API_KEY)"))
	}

	// model is required.
	if c.Model == "" {
		errs = append(errs, fmt.Errorf("model is required"))
	}

	// timeout must not be negative.
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %s", c.Timeout))
	}

	return errors.Join(errs...)
}
