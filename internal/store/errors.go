package store

import "fmt"

// CorruptStateError reports a stored collection that exists but cannot be
// decoded. It is logged and downgraded to "absent" (triggering a reseed);
// it never reaches consumers of the store.
type CorruptStateError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt state for %q: %v", e.Key, e.Err)
}

// Unwrap returns the decode error.
func (e *CorruptStateError) Unwrap() error {
	return e.Err
}
