package types

import "errors"

// Argument errors.
var (
	ErrUnknownAction      = errors.New("unknown action")
	ErrActionRequired     = errors.New("action must not be empty")
	ErrInvalidValueSwitch = errors.New("invalid value switch")
)

// ErrValidation marks a command that aborted because its arguments did not
// resolve against the model. Aborted commands produce an empty transaction
// log; the error is only carried as a diagnostic.
var ErrValidation = errors.New("validation failed")
