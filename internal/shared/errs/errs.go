// Package errs defines the error kinds shared by every module. Domain packages
// declare their own sentinels wrapping one of these kinds so that transports
// can map failures to responses without knowing each specific error.
package errs

import "errors"

var (
	// ErrValidation marks malformed or missing input the caller can correct.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown file, token or grant.
	ErrNotFound = errors.New("not found")
	// ErrAuthorization marks a caller that may not perform the action.
	ErrAuthorization = errors.New("not authorized")
	// ErrConflict marks a write that collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrTransient marks an unavailable or slow store. The whole request is safe to retry.
	ErrTransient = errors.New("store temporarily unavailable")
)

// Kind returns the shared kind err belongs to, or nil if it has none.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrAuthorization, ErrConflict, ErrTransient} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
