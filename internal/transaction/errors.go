package transaction

import "errors"

var (
	// ErrUnknownThing is returned when a node is not present in the
	// snapshot the builder reads from.
	ErrUnknownThing = errors.New("thing not present in snapshot")

	// ErrInvariantViolation marks a programming error in a command, such
	// as adding a node that the same transaction already updates. It is
	// never swallowed.
	ErrInvariantViolation = errors.New("transaction invariant violated")

	// ErrSealed is returned when a sealed transaction or log is modified.
	ErrSealed = errors.New("transaction sealed")
)
