// Package loaderr holds the error taxonomy shared by the homology loader.
package loaderr

import (
	"errors"
	"fmt"
)

// ConfigurationError is fatal: the run cannot proceed with the given setup.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Msg)
}

// Configf builds a ConfigurationError.
func Configf(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// DataAssumptionViolation describes a per-row anomaly that was absorbed with a fallback.
type DataAssumptionViolation struct {
	Feature string
	Msg     string
}

func (e *DataAssumptionViolation) Error() string {
	return fmt.Sprintf("data assumption violated for %q: %s", e.Feature, e.Msg)
}

// PersistenceError wraps a backing-store failure during store or flush.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
