package rop

import (
	"context"
	"errors"
)

// Errors lists the errors joined into err. A plain error comes back alone
// and nil gives an empty list.
func Errors(err error) []error {
	if err == nil {
		return []error{}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// IsCancellation reports whether err came from a done context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
