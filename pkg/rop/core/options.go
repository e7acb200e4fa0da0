package core

import "context"

type OptionKey string

const (
	WorkerOptionKey OptionKey = "worker_options"
	QueueOptionKey  OptionKey = "queue_options"
)

type MaxLimitOption struct {
	Value int
}

type WorkerOptions struct {
	MaxCount MaxLimitOption
}

type QueueOptions struct {
	Size int
}

// WithWorkerOptions caps how many locomotives a unit started with ctx runs.
func WithWorkerOptions(ctx context.Context, maxWorkers int) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{MaxLimitOption{Value: maxWorkers}})
}

func WithQueueOptions(ctx context.Context, size int) context.Context {
	return context.WithValue(ctx, QueueOptionKey, QueueOptions{Size: size})
}

func GetWorkerMaxCount(ctx context.Context, defaultMaxWorkers int) int {
	options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions)
	if ok && options.MaxCount.Value > 0 {
		return options.MaxCount.Value
	}
	return defaultMaxWorkers
}

func GetQueueSize(ctx context.Context, defaultSize int) int {
	options, ok := ctx.Value(QueueOptionKey).(QueueOptions)
	if ok && options.Size >= 0 {
		return options.Size
	}
	return defaultSize
}
