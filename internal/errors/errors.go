// Package errors provides standardized error handling for treepanel.
// It defines the error kinds the ordering engine can produce and helper
// functions for consistent creation, wrapping, and classification.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions re-exported for convenience
var (
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Config error kinds
	InvalidConfig
	UnknownStrategy
	InvalidPattern
	// Tree error kinds: integration mistakes, not user-facing failures
	IntegrityViolation
	EntryNotFound
	NotADirectory
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// ConfigError represents errors raised while loading or validating
// configuration. The offending parameter value is carried alongside the
// message so callers can surface it verbatim.
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %q: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %q", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter value associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// TreeError represents a structural inconsistency reported against the live
// tree, such as a mutation referencing an identity the tree does not hold.
type TreeError struct {
	ApplicationError
	entryID string
}

// NewTreeError creates a new tree error
func NewTreeError(msg string, entryID string, kind ErrorKind, err error) *TreeError {
	return &TreeError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		entryID: entryID,
	}
}

// Error returns the tree error message
func (e *TreeError) Error() string {
	if e.entryID != "" {
		return fmt.Sprintf("%s: %s", e.msg, e.entryID)
	}
	return e.ApplicationError.Error()
}

// EntryID returns the entry identity associated with the error
func (e *TreeError) EntryID() string {
	return e.entryID
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsUnknownStrategy checks if the error reports an unrecognized sort strategy
func IsUnknownStrategy(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == UnknownStrategy
	}
	return false
}

// IsIntegrityViolation checks if the error reports a mutation against an
// identity the tree does not hold
func IsIntegrityViolation(err error) bool {
	var treeErr *TreeError
	if errors.As(err, &treeErr) {
		switch treeErr.Kind() {
		case IntegrityViolation, EntryNotFound, NotADirectory:
			return true
		}
	}
	return false
}
