package interceptor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/logger"
)

// Call runs fn as method m and returns its typed result. A nil interceptor calls fn directly.
func Call[T any](ctx context.Context, i *Interceptor, m *descriptor.Method, args []any, fn func(ctx context.Context) (T, error)) (T, error) {
	if i == nil {
		return fn(ctx)
	}
	res, err := i.Invoke(ctx, Invocation{
		Method: m,
		Args:   args,
		Proceed: func(ctx context.Context) (any, error) {
			return fn(ctx)
		},
	})
	v, _ := res.(T)
	return v, err
}

// Run runs fn as the void method m. A nil interceptor calls fn directly.
func Run(ctx context.Context, i *Interceptor, m *descriptor.Method, args []any, fn func(ctx context.Context) error) error {
	if i == nil {
		return fn(ctx)
	}
	_, err := i.Invoke(ctx, Invocation{
		Method: m,
		Args:   args,
		Proceed: func(ctx context.Context) (any, error) {
			return nil, fn(ctx)
		},
	})
	return err
}

// Go runs inv on g. The goroutine gets its own copy of the ambient action store.
func (i *Interceptor) Go(ctx context.Context, g *errgroup.Group, inv Invocation) {
	forked := logger.ForkActionStore(ctx)
	g.Go(func() error {
		_, err := i.Invoke(forked, inv)
		return err
	})
}
