package writer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/logger"
)

const (
	// placeholder is replaced by successive action log arguments.
	placeholder = "{}"
	// argumentsKey holds leftover arguments that are neither pairs nor errors.
	argumentsKey = "arguments"
	// fieldPrefix is prepended to pair keys that collide with reserved fields.
	fieldPrefix = "arg_"
)

// DefaultLogWriter supports every method and emits action logs through a logger.Logger.
// Start and finish events use the descriptor level; throw events are always errors.
type DefaultLogWriter struct {
	log      logger.Logger
	resolver ActionLogResolver
}

var _ LogWriter = (*DefaultLogWriter)(nil)

// NewDefaultLogWriter creates the writer every chain falls back to. A nil resolver selects
// the console format.
func NewDefaultLogWriter(log logger.Logger, resolver ActionLogResolver) *DefaultLogWriter {
	if resolver == nil {
		resolver = ConsoleResolver{}
	}
	return &DefaultLogWriter{log: log, resolver: resolver}
}

// Resolver returns the format strategy in use.
func (w *DefaultLogWriter) Resolver() ActionLogResolver {
	return w.resolver
}

// Supports always returns true.
func (w *DefaultLogWriter) Supports(*descriptor.Method) bool {
	return true
}

func (w *DefaultLogWriter) OnStart(ctx context.Context, c StartContext) error {
	w.emit(w.event(ctx, c.Method, c.Level), w.resolver.OnStart(c))
	return nil
}

func (w *DefaultLogWriter) OnFinish(ctx context.Context, c FinishContext) error {
	w.emit(w.event(ctx, c.Method, c.Level), w.resolver.OnFinish(c))
	return nil
}

func (w *DefaultLogWriter) OnThrow(ctx context.Context, c ThrowContext) error {
	w.emit(w.event(ctx, c.Method, descriptor.LevelError), w.resolver.OnThrow(c))
	return nil
}

// event returns a log event named after the declaring type and enriched with the
// ambient action store of ctx.
func (w *DefaultLogWriter) event(ctx context.Context, m *descriptor.Method, level descriptor.Level) logger.LogEvent {
	l := w.log
	if m != nil && m.TypeName() != "" {
		l = l.WithFields(map[string]any{logger.LoggerKey: m.TypeName()})
	}
	l = l.WithContext(ctx)

	switch level {
	case descriptor.LevelTrace:
		return l.Trace()
	case descriptor.LevelDebug:
		return l.Debug()
	case descriptor.LevelWarn:
		return l.Warn()
	case descriptor.LevelError:
		return l.Error()
	default:
		return l.Info()
	}
}

// emit fills the placeholders of entry and attaches the leftover arguments: key-value
// pairs become fields and errors are attached as the event error. A pair whose key is
// reserved is written under fieldPrefix+key.
func (w *DefaultLogWriter) emit(ev logger.LogEvent, entry ActionLog) {
	msg, rest := render(entry.Message, entry.Arguments)

	var extra []any
	for _, arg := range rest {
		switch a := arg.(type) {
		case KeyValue:
			ev = ev.Interface(fieldKey(a.Key), a.Value)
		case error:
			ev = ev.Err(a)
		default:
			extra = append(extra, a)
		}
	}
	if len(extra) > 0 {
		ev = ev.Interface(argumentsKey, extra)
	}
	ev.Msg(msg)
}

func fieldKey(key string) string {
	if key == argumentsKey || logger.IsReservedField(key) {
		return fieldPrefix + key
	}
	return key
}

// render substitutes placeholders left to right and returns the arguments it did not use.
// Placeholders without a matching argument are kept verbatim.
func render(template string, args []any) (string, []any) {
	if !strings.Contains(template, placeholder) || len(args) == 0 {
		return template, args
	}

	var b strings.Builder
	rest := args
	for len(rest) > 0 {
		i := strings.Index(template, placeholder)
		if i < 0 {
			break
		}
		b.WriteString(template[:i])
		b.WriteString(fmt.Sprint(rest[0]))
		rest = rest[1:]
		template = template[i+len(placeholder):]
	}
	b.WriteString(template)
	return b.String(), rest
}
