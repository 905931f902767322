package writer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/observability"
)

const (
	meterName = "github.com/gaborage/go-bricks-actionlog/writer"

	metricActionStarted  = "actionlog.action.started"
	metricActionFinished = "actionlog.action.finished"
	metricActionFailed   = "actionlog.action.failed"

	attrAction = "action"
	attrType   = "code.namespace"
)

// MeteredLogWriter counts the events it forwards to the wrapped writer. Counting happens
// before delegation so failed hooks are still observed.
type MeteredLogWriter struct {
	next LogWriter

	started  metric.Int64Counter
	finished metric.Int64Counter
	failed   metric.Int64Counter
}

var _ LogWriter = (*MeteredLogWriter)(nil)

// NewMeteredLogWriter wraps next. A nil provider uses the global OpenTelemetry provider.
func NewMeteredLogWriter(next LogWriter, provider metric.MeterProvider) (*MeteredLogWriter, error) {
	if next == nil {
		return nil, fmt.Errorf("metered log writer: %w", ErrNoWriters)
	}
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)

	w := &MeteredLogWriter{next: next}
	var err error
	unit := metric.WithUnit("{action}")
	if w.started, err = observability.CreateCounter(meter, metricActionStarted,
		"Number of started actions", unit); err != nil {
		return nil, fmt.Errorf("create %s counter: %w", metricActionStarted, err)
	}
	if w.finished, err = observability.CreateCounter(meter, metricActionFinished,
		"Number of successfully finished actions", unit); err != nil {
		return nil, fmt.Errorf("create %s counter: %w", metricActionFinished, err)
	}
	if w.failed, err = observability.CreateCounter(meter, metricActionFailed,
		"Number of actions that returned an error or panicked", unit); err != nil {
		return nil, fmt.Errorf("create %s counter: %w", metricActionFailed, err)
	}
	return w, nil
}

func (w *MeteredLogWriter) Supports(m *descriptor.Method) bool {
	return w.next.Supports(m)
}

func (w *MeteredLogWriter) OnStart(ctx context.Context, c StartContext) error {
	w.started.Add(ctx, 1, metric.WithAttributes(actionAttributes(c.Method, c.Action)...))
	return w.next.OnStart(ctx, c)
}

func (w *MeteredLogWriter) OnFinish(ctx context.Context, c FinishContext) error {
	w.finished.Add(ctx, 1, metric.WithAttributes(actionAttributes(c.Method, c.Action)...))
	return w.next.OnFinish(ctx, c)
}

func (w *MeteredLogWriter) OnThrow(ctx context.Context, c ThrowContext) error {
	w.failed.Add(ctx, 1, metric.WithAttributes(actionAttributes(c.Method, c.Action)...))
	return w.next.OnThrow(ctx, c)
}

func actionAttributes(m *descriptor.Method, action string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(attrAction, action)}
	if m != nil && m.TypeName() != "" {
		attrs = append(attrs, attribute.String(attrType, m.TypeName()))
	}
	return attrs
}
