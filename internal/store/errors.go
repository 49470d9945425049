package store

import "errors"

// Backend errors.
var (
	ErrAlreadyAttached = errors.New("store already attached")
	ErrDetached        = errors.New("store not attached")
	ErrModelRequired   = errors.New("model name required")
	ErrInvalidModel    = errors.New("invalid model name")
	ErrLogNotSealed    = errors.New("transaction log not sealed")
	ErrUnsupportedKind = errors.New("kind has no table")
	ErrMissingRow      = errors.New("row not found")
	ErrCommitFailed    = errors.New("commit failed")
)
