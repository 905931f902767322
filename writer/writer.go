package writer

import (
	"context"
	"errors"

	"github.com/gaborage/go-bricks-actionlog/descriptor"
)

// ErrNoWriters is returned when a chain is assembled without any writer.
var ErrNoWriters = errors.New("no log writers configured")

// LogWriter emits the events of the methods it supports. Errors returned by the hooks are
// not isolated: they fail the intercepted call.
type LogWriter interface {
	Supports(m *descriptor.Method) bool
	OnStart(ctx context.Context, c StartContext) error
	OnFinish(ctx context.Context, c FinishContext) error
	OnThrow(ctx context.Context, c ThrowContext) error
}

// Chain consults writers in order; the first supporting writer wins. Unlike the name
// resolver chain there is no fallback: a method no writer supports is not logged.
type Chain struct {
	writers []LogWriter
}

// NewChain builds an immutable chain from writers in precedence order.
func NewChain(writers ...LogWriter) (*Chain, error) {
	frozen := make([]LogWriter, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			frozen = append(frozen, w)
		}
	}
	if len(frozen) == 0 {
		return nil, ErrNoWriters
	}
	return &Chain{writers: frozen}, nil
}

// Find returns the writer responsible for m.
func (c *Chain) Find(m *descriptor.Method) (LogWriter, bool) {
	for _, w := range c.writers {
		if w.Supports(m) {
			return w, true
		}
	}
	return nil, false
}

// Len returns the number of writers in the chain.
func (c *Chain) Len() int {
	return len(c.writers)
}
