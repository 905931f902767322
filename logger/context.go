package logger

import (
	"context"
	"maps"
	"sync"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// actionStoreKey is the context key for the ambient action store of a call tree
	actionStoreKey contextKey = "action_store"
)

// Well-known ambient keys. They are copied onto every log event created through
// Logger.WithContext so the backend can correlate records of the same action.
const (
	// ActionKey holds the name of the innermost active action.
	ActionKey = "action"
	// RequestIDKey holds the inbound request correlation id.
	RequestIDKey = "request_id"
)

// ActionStore is the ambient key-value store of one logical call tree. Stores attached
// by WithAmbient are copies, so a frame that sets a key never changes what its caller
// or a sibling goroutine sharing the caller's context sees.
type ActionStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewActionStore creates an empty store.
func NewActionStore() *ActionStore {
	return &ActionStore{values: make(map[string]string)}
}

// Get returns the value for key and whether it is present.
func (s *ActionStore) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Put sets key to value.
func (s *ActionStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Remove deletes key and returns the previous value, if any.
func (s *ActionStore) Remove(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	delete(s.values, key)
	return v, ok
}

// Snapshot returns a copy of all entries.
func (s *ActionStore) Snapshot() map[string]string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// WithActionStore attaches store to ctx. A nil store attaches a new empty one.
func WithActionStore(ctx context.Context, store *ActionStore) context.Context {
	if store == nil {
		store = NewActionStore()
	}
	return context.WithValue(ctx, actionStoreKey, store)
}

// ActionStoreFromContext returns the store attached to ctx, or nil.
func ActionStoreFromContext(ctx context.Context) *ActionStore {
	if ctx == nil {
		return nil
	}
	if store, ok := ctx.Value(actionStoreKey).(*ActionStore); ok {
		return store
	}
	return nil
}

// EnsureActionStore returns ctx unchanged when it already carries a store, otherwise a
// derived context with a fresh store.
func EnsureActionStore(ctx context.Context) (context.Context, *ActionStore) {
	if store := ActionStoreFromContext(ctx); store != nil {
		return ctx, store
	}
	store := NewActionStore()
	return WithActionStore(ctx, store), store
}

// ForkActionStore returns a context whose store is an independent copy of the one in
// ctx. Use it before handing ctx to another goroutine.
func ForkActionStore(ctx context.Context) context.Context {
	fork := NewActionStore()
	if store := ActionStoreFromContext(ctx); store != nil {
		fork.values = store.Snapshot()
	}
	return WithActionStore(ctx, fork)
}

// WithAmbient returns a context carrying a copy of the store in ctx with key set to value.
// ctx and its store are left untouched.
func WithAmbient(ctx context.Context, key, value string) context.Context {
	child := NewActionStore()
	if store := ActionStoreFromContext(ctx); store != nil {
		child.values = store.Snapshot()
	}
	child.values[key] = value
	return WithActionStore(ctx, child)
}

// ActionFromContext returns the name of the innermost active action, or "".
func ActionFromContext(ctx context.Context) string {
	v, _ := ActionStoreFromContext(ctx).Get(ActionKey)
	return v
}
