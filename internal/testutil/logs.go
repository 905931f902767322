// Package testutil provides shared helpers for tests that assert on emitted logs.
package testutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-bricks-actionlog/logger"
)

// LogBuffer collects JSON log lines. Writes are serialized so concurrently logged actions
// never interleave within a line.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogger returns a JSON logger at level writing to a fresh LogBuffer.
func NewLogger(level string) (*logger.ZeroLogger, *LogBuffer) {
	buf := &LogBuffer{}
	return logger.NewWithWriter(buf, level, false, nil), buf
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset discards everything written so far.
func (b *LogBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Entries decodes every line written so far.
func (b *LogBuffer) Entries(tb testing.TB) []map[string]any {
	tb.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(tb, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

// ActionEntries returns the entries written while an action was active.
func (b *LogBuffer) ActionEntries(tb testing.TB) []map[string]any {
	tb.Helper()
	var entries []map[string]any
	for _, e := range b.Entries(tb) {
		if _, ok := e[logger.ActionKey]; ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Messages returns the message of every entry.
func Messages(entries []map[string]any) []string {
	messages := make([]string, 0, len(entries))
	for _, e := range entries {
		if msg, ok := e["message"].(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
