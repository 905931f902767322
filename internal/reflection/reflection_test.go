package reflection

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleType struct{}

func (sampleType) Plain(_ string, _ int) string { return "" }

func (sampleType) WithContext(_ context.Context, _ string) error { return nil }

func (sampleType) NoResult() {
	// no-op
}

func (sampleType) Pair() (string, error) { return "", nil }

func methodType(t *testing.T, name string) reflect.Type {
	t.Helper()
	m, ok := reflect.TypeOf(sampleType{}).MethodByName(name)
	if !ok {
		t.Fatalf("method %s not found", name)
	}
	return m.Type
}

func TestGetTypeNameShort(t *testing.T) {
	assert.Equal(t, "sampleType", GetTypeNameShort(reflect.TypeOf(sampleType{})))
	assert.Equal(t, "sampleType", GetTypeNameShort(reflect.TypeOf(&sampleType{})))
	assert.Equal(t, "", GetTypeNameShort(nil))
}

func TestGetTypeName(t *testing.T) {
	pkg := reflect.TypeOf(sampleType{}).PkgPath()
	assert.Equal(t, pkg+".sampleType", GetTypeName(reflect.TypeOf(&sampleType{})))
	assert.Equal(t, "int", GetTypeName(reflect.TypeOf(0)))
	assert.Equal(t, "", GetTypeName(nil))
}

func TestMethodInputs(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		expected []reflect.Type
	}{
		{
			name:     "receiver_skipped",
			method:   "Plain",
			expected: []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(0)},
		},
		{
			name:     "leading_context_skipped",
			method:   "WithContext",
			expected: []reflect.Type{reflect.TypeOf("")},
		},
		{
			name:     "no_inputs",
			method:   "NoResult",
			expected: []reflect.Type{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MethodInputs(methodType(t, tt.method)))
		})
	}
}

func TestReturnsVoid(t *testing.T) {
	assert.False(t, ReturnsVoid(methodType(t, "Plain")))
	assert.True(t, ReturnsVoid(methodType(t, "WithContext")))
	assert.True(t, ReturnsVoid(methodType(t, "NoResult")))
	assert.False(t, ReturnsVoid(methodType(t, "Pair")))
}

func TestParamName(t *testing.T) {
	assert.Equal(t, "arg0", ParamName(0))
	assert.Equal(t, "arg12", ParamName(12))
}
