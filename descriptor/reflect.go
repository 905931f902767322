package descriptor

import (
	"reflect"

	"github.com/gaborage/go-bricks-actionlog/internal/reflection"
)

// Reflect builds metadata for every exported method of sample's type. The type-level
// descriptor d applies to all of them; parameters get positional names (arg0, arg1, ...)
// and a leading context.Context is not counted as a parameter.
// Use overrides to attach method-level descriptors or mark parameters sensitive.
func Reflect(sample any, d *Descriptor, overrides ...*Method) (*Type, error) {
	rt := reflect.TypeOf(sample)
	byName := make(map[string]*Method, len(overrides))
	for _, o := range overrides {
		byName[o.Name] = o
	}

	t := &Type{
		Name:       reflection.GetTypeNameShort(rt),
		Descriptor: d,
		Methods:    make([]*Method, 0, rt.NumMethod()),
	}

	for i := 0; i < rt.NumMethod(); i++ {
		rm := rt.Method(i)
		if rm.Name == "DescribeActions" {
			continue
		}

		if o, ok := byName[rm.Name]; ok {
			t.Methods = append(t.Methods, o)
			continue
		}

		inputs := reflection.MethodInputs(rm.Type)
		params := make([]Param, len(inputs))
		for j := range inputs {
			params[j] = Param{Name: reflection.ParamName(j)}
		}

		t.Methods = append(t.Methods, &Method{
			Name:   rm.Name,
			Params: params,
			Void:   reflection.ReturnsVoid(rm.Type),
		})
	}

	return Define(t)
}
