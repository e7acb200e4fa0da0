package rop

import (
	"time"

	"github.com/google/uuid"
)

// Result is the settled outcome of one unit of work: a value, a failure or a
// cancellation. Completions on a channel settle into a Result exactly once.
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	result    T
	err       error
	isSuccess bool
	isCancel  bool
}

func Success[T any](r T) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		result:    r,
		isSuccess: true,
	}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		err:       err,
	}
}

// Cancel marks work that never produced an answer because its channel went away.
func Cancel[T any](err error) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		err:       err,
		isCancel:  true,
	}
}

// CancelFrom carries a non-successful outcome over to another value type.
func CancelFrom[In, Out any](from Result[In]) Result[Out] {
	return Result[Out]{
		id:        from.id,
		createdAt: from.createdAt,
		err:       from.err,
		isSuccess: from.isSuccess,
		isCancel:  from.isCancel,
	}
}

func (r Result[T]) Result() T {
	return r.result
}

func (r Result[T]) Err() error {
	return r.err
}

// Get returns the value and error pair, the shape most Go callers want.
func (r Result[T]) Get() (T, error) {
	if r.isSuccess {
		return r.result, nil
	}
	var zero T
	return zero, r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[T]) IsFailure() bool {
	return !r.isSuccess && !r.isCancel && r.err != nil
}

func (r Result[T]) IsCancel() bool {
	return r.isCancel
}

func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

func (r Result[T]) IsEmpty() bool {
	return r.err == nil && !r.isCancel && !r.isSuccess
}

// ID identifies the outcome in logs. CancelFrom keeps the source ID.
func (r Result[T]) ID() uuid.UUID {
	return r.id
}
