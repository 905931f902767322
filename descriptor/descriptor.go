// Package descriptor holds the static metadata that drives action logging:
// per-method and per-type log descriptors, parameter sensitivity markers and the
// descriptor table that maps runtime types to their registered metadata.
//
// Metadata is declared next to the type it describes:
//
//	var userService = descriptor.MustDefine(&descriptor.Type{
//		Name:       "UserService",
//		Descriptor: &descriptor.Descriptor{},
//		Methods: []*descriptor.Method{
//			{Name: "Login", Params: []descriptor.Param{{Name: "user"}, {Name: "password", Sensitive: true}}},
//			{Name: "Logout", Void: true},
//		},
//	})
package descriptor

import "strings"

// Descriptor configures how the calls of a method are logged. It may be attached to a
// method or to its declaring type; the method-level descriptor wins.
// The zero value is the default descriptor: auto-resolved action name, INFO level,
// parameters, return value and errors all logged.
type Descriptor struct {
	// Action is the explicit action name. Blank means the name is resolved by the
	// name resolver chain.
	Action string `json:"action,omitempty" yaml:"action" koanf:"action"`

	// Nestable suppresses logging and ambient context changes when the method is invoked
	// while another action is already active.
	Nestable bool `json:"nestable,omitempty" yaml:"nestable" koanf:"nestable"`

	// Level is the severity for start and finish events. Throw events are always ERROR.
	Level Level `json:"level" yaml:"level" koanf:"level" validate:"min=-2,max=2"`

	// IgnoreAllParameters omits every parameter from the start event.
	IgnoreAllParameters bool `json:"ignoreAllParameters,omitempty" yaml:"ignoreAllParameters" koanf:"ignoreallparameters"`

	// IgnoreReturnValue omits the return value from the finish event.
	IgnoreReturnValue bool `json:"ignoreReturnValue,omitempty" yaml:"ignoreReturnValue" koanf:"ignorereturnvalue"`

	// IgnoreThrows suppresses the throw event. The error is still returned to the caller.
	IgnoreThrows bool `json:"ignoreThrows,omitempty" yaml:"ignoreThrows" koanf:"ignorethrows"`
}

// HasAction reports whether an explicit, non-blank action name is set.
func (d *Descriptor) HasAction() bool {
	return d != nil && strings.TrimSpace(d.Action) != ""
}

