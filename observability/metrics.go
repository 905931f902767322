package observability

import "go.opentelemetry.io/otel/metric"

// CreateCounter creates a new counter metric instrument.
// Counters are monotonically increasing values (e.g., started actions, failed actions).
//
// Example:
//
//	counter, err := CreateCounter(meter, "actionlog.action.started", "Number of started actions")
//	if err != nil {
//	    return err
//	}
//	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", "UserService::Login")))
func CreateCounter(meter metric.Meter, name, description string, opts ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return meter.Int64Counter(
		name,
		append([]metric.Int64CounterOption{
			metric.WithDescription(description),
		}, opts...)...,
	)
}
