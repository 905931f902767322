package logger

import "github.com/rs/zerolog"

// Field names written by WithContext and by action log writers.
const (
	LoggerKey  = "logger"
	TraceIDKey = "trace_id"
	SpanIDKey  = "span_id"
)

// IsReservedField reports whether key is already written by the backend or by the
// correlation fields, so a caller supplied field under that key would duplicate it.
func IsReservedField(key string) bool {
	switch key {
	case zerolog.LevelFieldName, zerolog.MessageFieldName, zerolog.TimestampFieldName,
		zerolog.ErrorFieldName, zerolog.CallerFieldName,
		ActionKey, RequestIDKey, LoggerKey, TraceIDKey, SpanIDKey:
		return true
	}
	return false
}
