package transform

import (
	"errors"
	"fmt"
)

// ErrDomain is wrapped by every error caused by input that no chart could
// be built from.
var ErrDomain = errors.New("domain error")

type DomainError struct {
	Field  string
	Reason string
}

func (e *DomainError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

func domainErr(field, format string, args ...any) error {
	return &DomainError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
