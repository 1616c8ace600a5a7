package bwatch

import (
	"errors"
	"fmt"
)

var ErrNoTargets = errors.New(
	"Both Storage and Client were not specified. One or both are required.")

var (
	ErrNotExecutable = errors.New("not executable")
	ErrNotReadable   = errors.New("not readable")
)

// OptionError reports a command line option whose value cannot be used.
type OptionError struct {
	Option string
	Value  string
	Err    error
}

func (e *OptionError) Error() string {
	switch e.Option {
	case "bconsole":
		return fmt.Sprintf(
			"The 'bconsole' variable, pointing to '%s' does not exist or is not executable.",
			e.Value)
	case "config":
		return fmt.Sprintf(
			"The config file '%s' does not exist or is not readable.",
			e.Value)
	}
	return fmt.Sprintf("invalid value '%s' for %s: %v", e.Value, e.Option, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}
