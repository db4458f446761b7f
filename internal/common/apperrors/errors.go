// Package apperrors contains generic error types shared between services.
// HTTP handlers look for these types to pick the right response status, so
// that a bad request from a client is not reported as a server failure.
package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidArgument represents an error that occurs when a client provides
// an invalid argument, e.g. an unknown view name or a malformed expression.
type ErrInvalidArgument struct {
	// Name of the invalid argument
	Name string
	// The invalid value
	Value any
	// Optional message included with the error message
	Message string
}

func (err *ErrInvalidArgument) Error() string {
	s := fmt.Sprintf("value %v is invalid for argument %s", err.Value, err.Name)
	if err.Message != "" {
		s += "; " + err.Message
	}
	return s
}

// IsInvalidArgument unwraps err and reports whether it is an ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	var invalid *ErrInvalidArgument
	return errors.As(err, &invalid)
}
