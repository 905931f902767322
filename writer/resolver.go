package writer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Recognized action log formats.
const (
	FormatConsole    = "console"
	FormatStructured = "structured"
)

// ReturnValueKey is the key of the return value pair in structured action logs.
const ReturnValueKey = "result"

// ErrUnknownFormat is returned when the configured format matches no strategy.
var ErrUnknownFormat = errors.New("unknown action log format")

// ActionLog is a message template with "{}" placeholders plus its ordered arguments.
// The logging backend owns the final encoding.
type ActionLog struct {
	Message   string
	Arguments []any
}

// KeyValue is a structured argument rendered as a separate log field.
type KeyValue struct {
	Key   string
	Value any
}

// ActionLogResolver renders the events of an action into action logs.
type ActionLogResolver interface {
	OnStart(c StartContext) ActionLog
	OnFinish(c FinishContext) ActionLog
	OnThrow(c ThrowContext) ActionLog
}

// NewActionLogResolver returns the strategy for format. An empty format selects the
// console strategy; anything unrecognized is an error.
func NewActionLogResolver(format string) (ActionLogResolver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatConsole:
		return ConsoleResolver{}, nil
	case FormatStructured:
		return StructuredResolver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (must be one of: %s, %s)", ErrUnknownFormat, format, FormatConsole, FormatStructured)
	}
}

func startedMessage(action string) string {
	return "Action '" + action + "' has started."
}

func finishedMessage(action string) string {
	return "Action '" + action + "' has successfully finished."
}

func thrownMessage(action string) string {
	return "Action '" + action + "' has thrown an exception."
}

// visibleParameters pairs parameter names with values and drops sensitive parameters.
// Every format strategy goes through it so sensitivity is applied identically.
func visibleParameters(c StartContext) []KeyValue {
	if c.Method == nil {
		return nil
	}
	n := min(len(c.Method.Params), len(c.Parameters))
	visible := make([]KeyValue, 0, n)
	for i := 0; i < n; i++ {
		p := c.Method.Params[i]
		if p.IsSensitive() {
			continue
		}
		visible = append(visible, KeyValue{Key: p.Name, Value: c.Parameters[i]})
	}
	return visible
}

// logsParameters reports whether the start event carries a parameter section.
func logsParameters(c StartContext) bool {
	return c.Method != nil && c.Method.HasParameters() && len(c.Parameters) > 0
}

// logsReturnValue reports whether the finish event carries a return value section.
func logsReturnValue(c FinishContext) bool {
	return c.Method != nil && !c.Method.ReturnsVoid() && c.HasReturnValue
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
