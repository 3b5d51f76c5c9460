package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the scoring domain. Typed errors below unwrap to them.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrInputData     = errors.New("input data error")
)

// ConfigurationError reports a malformed weight set, band list or bucket rule.
// It is fatal: nothing may be classified against a configuration that produced it.
type ConfigurationError struct {
	Component string // weights, bands, buckets
	Name      string // offending entry, empty when the whole set is at fault
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Component, e.Reason)
	}
	return fmt.Sprintf("%s: %s %q: %s", ErrConfiguration, e.Component, e.Name, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError is a shorthand used by the validators.
func NewConfigurationError(component, name, reason string) *ConfigurationError {
	return &ConfigurationError{Component: component, Name: name, Reason: reason}
}

// InputDataError reports an ingested record that violates the data contract,
// e.g. a group score outside the canonical scale.
type InputDataError struct {
	Record string // record identifier or row reference
	Field  string
	Reason string
}

func (e *InputDataError) Error() string {
	return fmt.Sprintf("%s: record %s: field %s: %s", ErrInputData, e.Record, e.Field, e.Reason)
}

func (e *InputDataError) Unwrap() error { return ErrInputData }
