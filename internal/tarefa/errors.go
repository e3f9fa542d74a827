package tarefa

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the id is not in the client collection.
	ErrNotFound = errors.New("tarefa not found")

	// ErrUnauthorized marks a 401/403 from the authority. It terminates
	// the session and must not be retried.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError is a local, pre-network rejection: the collection and the
// remote state are untouched when one is returned.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %v", e.Reason, e.Err)
	}
	return "validation: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
