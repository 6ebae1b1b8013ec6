package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a configuration value that cannot be used
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError describes a rejected configuration value
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field, value, reason string) error {
	return &ConfigurationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}
