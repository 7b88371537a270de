package simulator

import "errors"

// networkErrorMessage is deliberately generic: a failed simulated call
// carries no detail beyond the fact that it failed.
const networkErrorMessage = "A random network error occurred."

// NetworkError is the simulated transient failure. It is never retried
// automatically and nothing is persisted when it is returned.
type NetworkError struct {
	// Op names the simulated operation, for logs only.
	Op string
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return networkErrorMessage
}

// IsNetworkError returns true if err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
