// Package errors provides error handling for nakamura.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Common sentinel errors for use across nakamura.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidArgument indicates a caller violated a contract
	// (e.g. an empty identifier where one is required)
	ErrInvalidArgument = New("invalid argument")

	// ErrAccessDenied indicates the requester is not allowed to read
	// the resource. Feed assembly treats this as recoverable.
	ErrAccessDenied = New("access denied")

	// ErrStorageUnavailable indicates the backing store failed.
	// Feed assembly treats this as fatal.
	ErrStorageUnavailable = New("storage unavailable")
)

// IsNotFound checks if an error is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsAccessDenied checks if an error is or wraps ErrAccessDenied.
func IsAccessDenied(err error) bool {
	return err != nil && Is(err, ErrAccessDenied)
}

// IsInvalidArgument checks if an error is or wraps ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return err != nil && Is(err, ErrInvalidArgument)
}
