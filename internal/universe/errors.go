package universe

import (
	"errors"
	"fmt"

	"github.com/Fuatnow/planets-3d/internal/handles"
)

// Domain errors for universe operations.
var (
	// ErrNotFound indicates a stale or unknown body key.
	ErrNotFound = errors.New("universe: body not found")

	// ErrNoSelection indicates an operation that needs a selected body ran
	// while the selection was none.
	ErrNoSelection = errors.New("universe: no body selected")

	// ErrInvalidBody indicates non-positive mass or non-finite vectors.
	ErrInvalidBody = errors.New("universe: invalid body parameters")
)

// KeyError records the operation and key that failed.
type KeyError struct {
	Op  string
	Key handles.Key
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func notFound(op string, k handles.Key) error {
	return &KeyError{Op: op, Key: k, Err: ErrNotFound}
}
