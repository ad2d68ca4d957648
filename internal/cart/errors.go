package cart

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// PersistenceError reports a failed write-through to the key-value store.
// The in-memory cart state is still valid when this is returned; callers
// may treat it as a degraded-mode warning rather than a hard failure.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cart state not persisted: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
