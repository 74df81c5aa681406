package models

import "fmt"

// ConfigError reports invalid user-supplied configuration. It is always fatal
// and raised before any worker starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// EmptyRegistryError means warm-up found no users or vehicles for a city, so
// the simulator has no seed data to pick from.
type EmptyRegistryError struct {
	City string
}

func (e *EmptyRegistryError) Error() string {
	return fmt.Sprintf("no users or vehicles found for city %q, run the 'load' command first", e.City)
}
