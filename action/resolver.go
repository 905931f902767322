// Package action resolves the human/machine readable name of an action when the
// descriptor does not set one explicitly.
package action

import (
	"github.com/gaborage/go-bricks-actionlog/descriptor"
)

// NameResolver derives an action name for a method.
type NameResolver interface {
	// Supports decides whether this resolver handles the method.
	Supports(m *descriptor.Method) bool
	// Resolve returns the action name for the method.
	Resolve(m *descriptor.Method) string
}

// DefaultNameResolver names actions after the declaring type and the method:
// "<TypeSimpleName>::<MethodName>". It supports every method.
type DefaultNameResolver struct{}

var _ NameResolver = DefaultNameResolver{}

// Supports always returns true.
func (DefaultNameResolver) Supports(*descriptor.Method) bool { return true }

// Resolve returns "<TypeSimpleName>::<MethodName>".
func (DefaultNameResolver) Resolve(m *descriptor.Method) string {
	return m.TypeName() + "::" + m.Name
}

// ResolverFunc adapts a pair of functions to NameResolver.
// A nil SupportsFunc supports every method.
type ResolverFunc struct {
	SupportsFunc func(m *descriptor.Method) bool
	ResolveFunc  func(m *descriptor.Method) string
}

// Supports calls SupportsFunc.
func (f ResolverFunc) Supports(m *descriptor.Method) bool {
	if f.SupportsFunc == nil {
		return true
	}
	return f.SupportsFunc(m)
}

// Resolve calls ResolveFunc.
func (f ResolverFunc) Resolve(m *descriptor.Method) string {
	return f.ResolveFunc(m)
}

// Chain consults resolvers in order; the first supporting resolver wins. When none
// supports the method, DefaultNameResolver is used. A Chain is immutable.
type Chain struct {
	resolvers []NameResolver
	fallback  NameResolver
}

// NewChain builds a chain from resolvers in precedence order. The slice is copied and nil
// entries are dropped.
func NewChain(resolvers ...NameResolver) *Chain {
	frozen := make([]NameResolver, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			frozen = append(frozen, r)
		}
	}
	return &Chain{resolvers: frozen, fallback: DefaultNameResolver{}}
}

// Find returns the resolver responsible for m. It never returns nil.
func (c *Chain) Find(m *descriptor.Method) NameResolver {
	for _, r := range c.resolvers {
		if r.Supports(m) {
			return r
		}
	}
	return c.fallback
}

// Resolve returns the action name for m.
func (c *Chain) Resolve(m *descriptor.Method) string {
	return c.Find(m).Resolve(m)
}

// Len returns the number of configured resolvers, excluding the fallback.
func (c *Chain) Len() int {
	return len(c.resolvers)
}
