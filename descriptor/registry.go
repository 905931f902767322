package descriptor

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/gaborage/go-bricks-actionlog/internal/reflection"
)

// Registry is the descriptor table: it maps runtime types to their action metadata.
// Registration happens at start-up; lookups are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]*Type
}

// DefaultRegistry is the global descriptor table used when no explicit registry is supplied.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty descriptor table.
func NewRegistry() *Registry {
	return &Registry{types: make(map[reflect.Type]*Type)}
}

// Register associates the runtime type of sample with t. A blank t.Name is filled with
// the simple name of the sample's type. t is defined (validated and linked) if needed.
func (r *Registry) Register(sample any, t *Type) error {
	if sample == nil {
		return fmt.Errorf("cannot register metadata for nil sample")
	}
	if t == nil {
		return fmt.Errorf("cannot register nil metadata for %T", sample)
	}

	rt := reflect.TypeOf(sample)
	if t.Name == "" {
		t.Name = reflection.GetTypeNameShort(rt)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := defineOnce(t); err != nil {
		return err
	}
	if existing, ok := r.types[rt]; ok && existing != t {
		return fmt.Errorf("metadata for %s already registered", reflection.GetTypeName(rt))
	}
	r.types[rt] = t
	return nil
}

// Lookup returns the metadata for obj: registered metadata first, then the object's own
// description when it implements Describer.
func (r *Registry) Lookup(obj any) (*Type, bool) {
	if obj == nil {
		return nil, false
	}

	r.mu.RLock()
	t, ok := r.types[reflect.TypeOf(obj)]
	r.mu.RUnlock()
	if ok {
		return t, true
	}

	if d, ok := obj.(Describer); ok {
		if t := d.DescribeActions(); t != nil {
			r.mu.Lock()
			err := defineOnce(t)
			r.mu.Unlock()
			if err != nil {
				return nil, false
			}
			return t, true
		}
	}
	return nil, false
}

// defineOnce links t unless it already is. Callers hold r.mu: a describer may hand the
// same *Type to concurrent lookups.
func defineOnce(t *Type) error {
	if t.index != nil {
		return nil
	}
	_, err := Define(t)
	return err
}

// Types returns every registered type sorted by name.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Clear removes all registrations (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = make(map[reflect.Type]*Type)
}
