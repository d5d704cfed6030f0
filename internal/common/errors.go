// Package common defines shared constants and sentinel errors used across
// the Werkstatt client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store/repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors: missing required input, reported before any store
	// call is attempted.
	ErrValidation = errors.New("validation error")

	// Precondition errors: the operation is well-formed but the current
	// state forbids it.
	ErrOdometerRequired = errors.New("odometer reading required to close job")
	ErrJobClosed        = errors.New("job is closed")

	// Timer-specific errors.
	ErrTimerRunning = errors.New("timer already running")

	// Signature-specific errors.
	ErrNoInk = errors.New("signature surface is blank")
)
