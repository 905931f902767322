// Package interceptor brackets calls of described methods with action log events and
// keeps the ambient action name of the call tree up to date.
//
// Go has no dynamic proxies; services are wrapped by hand-written decorators that route
// every method through the interceptor:
//
//	func (s *loggedUserService) Login(ctx context.Context, user, password string) (string, error) {
//		return interceptor.Call(ctx, s.ic, loginMethod, []any{user, password},
//			func(ctx context.Context) (string, error) { return s.next.Login(ctx, user, password) })
//	}
package interceptor

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/gaborage/go-bricks-actionlog/action"
	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/logger"
	"github.com/gaborage/go-bricks-actionlog/writer"
)

// Invocation is one call of a described method.
type Invocation struct {
	Method *descriptor.Method
	// Args are the call arguments in declaration order, excluding the context.
	Args []any
	// Proceed runs the underlying operation. It receives the context carrying the
	// ambient action store so nested intercepted calls see the active action.
	Proceed func(ctx context.Context) (any, error)
}

// PanicError is reported to OnThrow when the underlying operation panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Interceptor runs invocations through the name resolver chain and the log writer chain.
// It is safe for concurrent use; both chains are immutable.
type Interceptor struct {
	names   *action.Chain
	writers *writer.Chain
}

// New creates an interceptor. A nil name chain uses only the default resolver; a nil
// writer chain is a wiring error.
func New(names *action.Chain, writers *writer.Chain) (*Interceptor, error) {
	if writers == nil {
		return nil, fmt.Errorf("interceptor: %w", writer.ErrNoWriters)
	}
	if names == nil {
		names = action.NewChain()
	}
	return &Interceptor{names: names, writers: writers}, nil
}

// Invoke runs inv. Results and errors of the underlying operation are returned unchanged.
// Errors returned by writer hooks are not isolated: an OnStart or OnFinish failure fails
// the call like a business error, and an OnThrow failure replaces the error returned.
func (i *Interceptor) Invoke(ctx context.Context, inv Invocation) (result any, err error) {
	m := inv.Method
	if m == nil {
		return inv.Proceed(ctx)
	}
	d, described := m.Effective()
	if !described {
		return inv.Proceed(ctx)
	}

	previous := logger.ActionFromContext(ctx)
	if previous != "" && d.Nestable {
		return inv.Proceed(ctx)
	}

	name := i.actionName(m, &d)
	w, hasWriter := i.writers.Find(m)

	// The caller's store is never written; the action is bound to this frame's ctx only.
	ctx = logger.WithAmbient(ctx, logger.ActionKey, name)

	defer func() {
		if r := recover(); r != nil {
			if hasWriter && !d.IgnoreThrows {
				_ = w.OnThrow(ctx, writer.ThrowContext{
					Method: m,
					Action: name,
					Err:    &PanicError{Value: r, Stack: debug.Stack()},
				})
			}
			panic(r)
		}
	}()

	if hasWriter {
		params := inv.Args
		if d.IgnoreAllParameters {
			params = []any{}
		}
		if err := w.OnStart(ctx, writer.StartContext{Method: m, Action: name, Level: d.Level, Parameters: params}); err != nil {
			return nil, i.failed(ctx, w, m, &d, name, err)
		}
	}

	result, err = inv.Proceed(ctx)
	if err != nil {
		if !hasWriter {
			return result, err
		}
		return result, i.failed(ctx, w, m, &d, name, err)
	}

	if hasWriter {
		fc := writer.FinishContext{Method: m, Action: name, Level: d.Level}
		if !d.IgnoreReturnValue && !m.ReturnsVoid() {
			fc.ReturnValue = result
			fc.HasReturnValue = true
		}
		if err := w.OnFinish(ctx, fc); err != nil {
			return result, i.failed(ctx, w, m, &d, name, err)
		}
	}
	return result, nil
}

// failed notifies the throw event unless ignored and returns the error the caller sees.
func (i *Interceptor) failed(ctx context.Context, w writer.LogWriter, m *descriptor.Method, d *descriptor.Descriptor, name string, cause error) error {
	if d.IgnoreThrows {
		return cause
	}
	if err := w.OnThrow(ctx, writer.ThrowContext{Method: m, Action: name, Err: cause}); err != nil {
		return err
	}
	return cause
}

func (i *Interceptor) actionName(m *descriptor.Method, d *descriptor.Descriptor) string {
	if d.HasAction() {
		return d.Action
	}
	return i.names.Resolve(m)
}
