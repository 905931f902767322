package interceptor

import (
	"github.com/gaborage/go-bricks-actionlog/descriptor"
)

// Checker decides which objects need an action logging decorator.
type Checker struct {
	registry *descriptor.Registry
}

// NewChecker creates a checker over registry; nil uses descriptor.DefaultRegistry.
func NewChecker(registry *descriptor.Registry) *Checker {
	if registry == nil {
		registry = descriptor.DefaultRegistry
	}
	return &Checker{registry: registry}
}

// NeedsWrapping reports whether obj has metadata that makes it eligible.
func (c *Checker) NeedsWrapping(obj any) bool {
	t, ok := c.registry.Lookup(obj)
	if !ok {
		return false
	}
	return IsEligible(t)
}

// IsEligible reports whether a type needs wrapping: it is not sealed and either carries a
// type-level descriptor with at least one eligible method, or has an eligible method with
// its own descriptor.
func IsEligible(t *descriptor.Type) bool {
	if t == nil || t.Sealed {
		return false
	}
	for _, m := range t.Methods {
		if !m.Eligible() {
			continue
		}
		if t.Descriptor != nil || m.Descriptor != nil {
			return true
		}
	}
	return false
}
