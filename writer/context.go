// Package writer decides whether and how the events of an intercepted call are emitted:
// the log writer chain, the default zerolog-backed writer and the action log format
// strategies (console and structured).
package writer

import (
	"github.com/gaborage/go-bricks-actionlog/descriptor"
)

// StartContext describes the start of an action.
type StartContext struct {
	Method *descriptor.Method
	Action string
	Level  descriptor.Level

	// Parameters holds the call arguments in declaration order; empty when the
	// descriptor ignores all parameters.
	Parameters []any
}

// FinishContext describes the successful completion of an action.
type FinishContext struct {
	Method *descriptor.Method
	Action string
	Level  descriptor.Level

	// ReturnValue is meaningful only when HasReturnValue is true. It is absent for void
	// methods and when the descriptor ignores the return value.
	ReturnValue    any
	HasReturnValue bool
}

// ThrowContext describes an action that failed with Err.
type ThrowContext struct {
	Method *descriptor.Method
	Action string
	Err    error
}
