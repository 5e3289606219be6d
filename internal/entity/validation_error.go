package entity

import (
	"errors"
	"fmt"
)

var ErrDuplicateURL = errors.New("job with this url already exists")

// ValidationError is returned when a JobDetail cannot be created.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
