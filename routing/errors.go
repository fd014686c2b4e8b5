package routing

import "errors"

// Search outcomes other than success. Callers match them with errors.Is.
var (
	ErrNotFound = errors.New("airport not found")
	ErrNoRoute  = errors.New("no route found")
)

// NotFoundError names the airport code the directory does not know. It
// matches ErrNotFound.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return ErrNotFound.Error() + ": " + e.Code
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
