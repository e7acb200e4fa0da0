package solo

import (
	"context"
	"errors"

	"github.com/ib-77/chartflow/pkg/rop"
)

func Succeed[T any](input T) rop.Result[T] {
	return rop.Success(input)
}

func Validate[T any](ctx context.Context, input T,
	validate func(ctx context.Context, in T) error) rop.Result[T] {
	return AndValidate(ctx, Succeed(input), validate)
}

// AndValidate fails a successful input when validate rejects it.
func AndValidate[T any](ctx context.Context, input rop.Result[T],
	validate func(ctx context.Context, in T) error) rop.Result[T] {

	if !input.IsSuccess() {
		return input
	}
	if err := validate(ctx, input.Result()); err != nil {
		return rop.Fail[T](err)
	}
	return input
}

func Map[In any, Out any](ctx context.Context,
	input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out) rop.Result[Out] {

	if input.IsSuccess() {
		return rop.Success(onSuccess(ctx, input.Result()))
	}
	return rop.CancelFrom[In, Out](input)
}

func Try[In any, Out any](ctx context.Context, input rop.Result[In],
	onTryExecute func(ctx context.Context, r In) (Out, error)) rop.Result[Out] {

	if !input.IsSuccess() {
		return rop.CancelFrom[In, Out](input)
	}

	out, err := onTryExecute(ctx, input.Result())
	if err != nil {
		return rop.Fail[Out](err)
	}
	return rop.Success(out)
}

func Finally[In, Out any](ctx context.Context, input rop.Result[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) Out {

	if input.IsSuccess() {
		return onSuccess(ctx, input.Result())
	} else if input.IsCancel() {
		return onCancel(ctx, input.Err())
	} else {
		return onError(ctx, input.Err())
	}
}

// Join runs every check against the same input and collects all failures.
func Join[T any](ctx context.Context, input rop.Result[T],
	checks ...func(ctx context.Context, in T) error) rop.Result[T] {

	if !input.IsSuccess() {
		return input
	}

	var errs []error
	for _, check := range checks {
		if ctx.Err() != nil {
			return rop.Cancel[T](ctx.Err())
		}
		if err := check(ctx, input.Result()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return rop.Fail[T](errors.Join(errs...))
	}
	return input
}
