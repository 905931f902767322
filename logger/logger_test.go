package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

const (
	testMessage = "test message"
	testAction  = "UserService::Login"
)

func newBufferLogger(t *testing.T, level string) (*ZeroLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithWriter(&buf, level, false, nil), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		expectedLevel zerolog.Level
	}{
		{name: "info_level", level: "info", expectedLevel: zerolog.InfoLevel},
		{name: "debug_level", level: "debug", expectedLevel: zerolog.DebugLevel},
		{name: "error_level", level: "error", expectedLevel: zerolog.ErrorLevel},
		{name: "invalid_level_defaults_to_info", level: "invalid_level", expectedLevel: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newBufferLogger(t, tt.level)

			require.NotNil(t, l.zlog)
			require.NotNil(t, l.filter)
			assert.Equal(t, tt.expectedLevel, l.zlog.GetLevel())
			assert.Equal(t, DefaultMaskValue, l.filter.config.MaskValue)
		})
	}
}

func TestNewUsesStdout(t *testing.T) {
	l := New("warn", true)
	require.NotNil(t, l)
	assert.Equal(t, zerolog.WarnLevel, l.zlog.GetLevel())

	custom := NewWithFilter("info", false, &FilterConfig{SensitiveFields: []string{"pin"}})
	assert.Equal(t, []string{"pin"}, custom.filter.config.SensitiveFields)
	assert.Equal(t, DefaultMaskValue, custom.filter.config.MaskValue)
}

func TestEventLevelsAndFields(t *testing.T) {
	l, buf := newBufferLogger(t, "trace")

	l.Trace().Msg("t")
	l.Debug().Int("n", 1).Msg("d")
	l.Info().Str("k", "v").Int64("i64", 2).Uint64("u64", 3).Msg("i")
	l.Warn().Dur("elapsed", time.Second).Bytes("raw", []byte("x")).Msgf("w %d", 1)
	l.Error().Err(errors.New("boom")).Interface("obj", map[string]any{"a": 1}).Msg("e")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 5)
	assert.Equal(t, "trace", entries[0]["level"])
	assert.Equal(t, "debug", entries[1]["level"])
	assert.Equal(t, "v", entries[2]["k"])
	assert.Equal(t, "w 1", entries[3]["message"])
	assert.Equal(t, "boom", entries[4]["error"])
	assert.Equal(t, map[string]any{"a": float64(1)}, entries[4]["obj"])
}

func TestEventFieldsAreFiltered(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	l.Info().
		Str("password", "hunter2").
		Interface("request", struct {
			User     string `json:"user"`
			Password string `json:"password"`
		}{User: "jane", Password: "hunter2"}).
		Msg(testMessage)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultMaskValue, entries[0]["password"])
	assert.Equal(t, map[string]any{"user": "jane", "password": DefaultMaskValue}, entries[0]["request"])
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestWithFieldsFiltersSensitiveData(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	l.WithFields(map[string]any{"logger": "UserService", "api_key": "abc"}).Info().Msg(testMessage)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "UserService", entries[0]["logger"])
	assert.Equal(t, DefaultMaskValue, entries[0]["api_key"])
}

func TestWithContextAddsAmbientFields(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	ctx, store := EnsureActionStore(context.Background())
	store.Put(ActionKey, testAction)
	store.Put(RequestIDKey, "req-1")

	l.WithContext(ctx).Info().Msg(testMessage)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, testAction, entries[0][ActionKey])
	assert.Equal(t, "req-1", entries[0][RequestIDKey])
}

func TestWithContextAddsSpanIDs(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	l.WithContext(ctx).Info().Msg(testMessage)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0]["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entries[0]["span_id"])
}

func TestWithContextWithoutCorrelationReturnsSameLogger(t *testing.T) {
	l, _ := newBufferLogger(t, "info")

	assert.Same(t, l, l.WithContext(context.Background()))
	assert.Same(t, l, l.WithContext("not a context"))
	assert.Same(t, l, l.WithContext(nil))
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info", true, nil)

	l.Info().Msg(testMessage)

	assert.Contains(t, buf.String(), testMessage)
	assert.NotContains(t, buf.String(), `"message"`)
}
