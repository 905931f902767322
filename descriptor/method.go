package descriptor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Param describes one positional parameter of a method.
type Param struct {
	Name string `json:"name" validate:"required"`

	// Sensitive hides the parameter (name and value) from every action log format.
	Sensitive bool `json:"sensitive,omitempty"`
}

// IsSensitive is the single predicate every format strategy uses to drop a parameter.
func (p Param) IsSensitive() bool {
	return p.Sensitive
}

// Method is the identity of an interceptable method together with its static metadata.
// Methods are compared by pointer; define them once and reuse them for every call.
type Method struct {
	Name   string  `json:"name" validate:"required"`
	Params []Param `json:"params,omitempty" validate:"dive"`

	// Void marks methods whose only result (if any) is an error.
	Void bool `json:"void,omitempty"`

	// Static, Unexported and Final mark methods that cannot be intercepted.
	Static     bool `json:"static,omitempty"`
	Unexported bool `json:"unexported,omitempty"`
	Final      bool `json:"final,omitempty"`

	// Descriptor is the method-level descriptor; nil falls back to the type descriptor.
	Descriptor *Descriptor `json:"descriptor,omitempty"`

	owner *Type
}

// Owner returns the declaring type, or nil when the method was never defined.
func (m *Method) Owner() *Type {
	return m.owner
}

// TypeName returns the simple name of the declaring type.
func (m *Method) TypeName() string {
	if m.owner == nil {
		return ""
	}
	return m.owner.Name
}

// ID returns the "<Type>.<Method>" identity string.
func (m *Method) ID() string {
	return m.TypeName() + "." + m.Name
}

// HasParameters reports whether the method declares at least one parameter.
func (m *Method) HasParameters() bool {
	return len(m.Params) > 0
}

// ReturnsVoid reports whether the method produces no value besides an error.
func (m *Method) ReturnsVoid() bool {
	return m.Void
}

// Eligible reports whether the method can be intercepted at all.
func (m *Method) Eligible() bool {
	return !m.Static && !m.Unexported && !m.Final
}

// Effective returns the descriptor that governs calls of m: the method-level descriptor
// when present, otherwise the descriptor of the declaring type.
func (m *Method) Effective() (Descriptor, bool) {
	if m.Descriptor != nil {
		return *m.Descriptor, true
	}
	if m.owner != nil && m.owner.Descriptor != nil {
		return *m.owner.Descriptor, true
	}
	return Descriptor{}, false
}

// Type describes a type whose methods may be intercepted.
type Type struct {
	Name       string      `json:"name" validate:"required"`
	Sealed     bool        `json:"sealed,omitempty"`
	Descriptor *Descriptor `json:"descriptor,omitempty"`
	Methods    []*Method   `json:"methods" validate:"dive,required"`

	index map[string]*Method
}

// Method looks up a method by name.
func (t *Type) Method(name string) *Method {
	if t.index != nil {
		return t.index[name]
	}
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Describer is implemented by objects that carry their own metadata instead of being
// registered in a Registry.
type Describer interface {
	DescribeActions() *Type
}

var (
	// ErrDuplicateMethod is returned when a type declares the same method name twice.
	ErrDuplicateMethod = errors.New("duplicate method")

	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Define validates t and links every method to its declaring type. It must be called
// once before the type is used for interception; it returns t for convenience.
func Define(t *Type) (*Type, error) {
	if t == nil {
		return nil, fmt.Errorf("type is nil")
	}
	if err := structValidator().Struct(t); err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", t.Name, err)
	}

	index := make(map[string]*Method, len(t.Methods))
	for _, m := range t.Methods {
		if _, exists := index[m.Name]; exists {
			return nil, fmt.Errorf("type %q method %q: %w", t.Name, m.Name, ErrDuplicateMethod)
		}
		index[m.Name] = m
		m.owner = t
	}
	t.index = index

	return t, nil
}

// MustDefine is like Define but panics on invalid metadata. Intended for package-level vars.
func MustDefine(t *Type) *Type {
	defined, err := Define(t)
	if err != nil {
		panic(err)
	}
	return defined
}
