package writer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-bricks-actionlog/descriptor"
)

const testAction = "testAction"

type testMethods struct {
	withParams   *descriptor.Method
	noParams     *descriptor.Method
	voidMethod   *descriptor.Method
	withSecret   *descriptor.Method
	allSensitive *descriptor.Method
}

func newTestMethods(t *testing.T) testMethods {
	t.Helper()
	m := testMethods{
		withParams: &descriptor.Method{
			Name:   "Process",
			Params: []descriptor.Param{{Name: "p0"}, {Name: "p1"}},
		},
		noParams:   &descriptor.Method{Name: "Ping"},
		voidMethod: &descriptor.Method{Name: "Flush", Params: []descriptor.Param{{Name: "id"}}, Void: true},
		withSecret: &descriptor.Method{
			Name:   "Login",
			Params: []descriptor.Param{{Name: "user"}, {Name: "password", Sensitive: true}},
		},
		allSensitive: &descriptor.Method{
			Name:   "Rotate",
			Params: []descriptor.Param{{Name: "secret", Sensitive: true}},
		},
	}
	_, err := descriptor.Define(&descriptor.Type{
		Name:    "TestService",
		Methods: []*descriptor.Method{m.withParams, m.noParams, m.voidMethod, m.withSecret, m.allSensitive},
	})
	require.NoError(t, err)
	return m
}

func TestNewActionLogResolver(t *testing.T) {
	tests := []struct {
		format   string
		expected ActionLogResolver
	}{
		{format: "", expected: ConsoleResolver{}},
		{format: "console", expected: ConsoleResolver{}},
		{format: " Console ", expected: ConsoleResolver{}},
		{format: "structured", expected: StructuredResolver{}},
		{format: "STRUCTURED", expected: StructuredResolver{}},
	}
	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			r, err := NewActionLogResolver(tt.format)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, r)
		})
	}

	t.Run("unknown_format_fails", func(t *testing.T) {
		r, err := NewActionLogResolver("xml")
		require.Error(t, err)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrUnknownFormat)
		assert.Contains(t, err.Error(), `"xml"`)
	})
}

func TestConsoleOnStart(t *testing.T) {
	m := newTestMethods(t)
	r := ConsoleResolver{}

	t.Run("with_parameters", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.withParams, Action: testAction, Parameters: []any{"V0", 1}})
		assert.Equal(t, "Action 'testAction' has started. Parameters: [{}]", log.Message)
		assert.Equal(t, []any{"p0=V0, p1=1"}, log.Arguments)
	})

	t.Run("no_parameters", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.noParams, Action: testAction})
		assert.Equal(t, "Action 'testAction' has started.", log.Message)
		assert.Empty(t, log.Arguments)
	})

	t.Run("ignored_parameters", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.withParams, Action: testAction, Parameters: []any{}})
		assert.Equal(t, "Action 'testAction' has started.", log.Message)
		assert.Empty(t, log.Arguments)
	})

	t.Run("sensitive_parameter_dropped", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.withSecret, Action: testAction, Parameters: []any{"jane", "hunter2"}})
		assert.Equal(t, []any{"user=jane"}, log.Arguments)
		assert.NotContains(t, log.Arguments[0], "hunter2")
		assert.NotContains(t, log.Arguments[0], "password")
	})

	t.Run("all_parameters_sensitive", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.allSensitive, Action: testAction, Parameters: []any{"s3cr3t"}})
		assert.Equal(t, "Action 'testAction' has started. Parameters: [{}]", log.Message)
		assert.Equal(t, []any{""}, log.Arguments)
	})
}

func TestConsoleOnFinish(t *testing.T) {
	m := newTestMethods(t)
	r := ConsoleResolver{}

	t.Run("with_return_value", func(t *testing.T) {
		log := r.OnFinish(FinishContext{Method: m.withParams, Action: testAction, ReturnValue: "Result", HasReturnValue: true})
		assert.Equal(t, "Action 'testAction' has successfully finished. Return value: [{}]", log.Message)
		assert.Equal(t, []any{"Result"}, log.Arguments)
	})

	t.Run("nil_return_value_is_kept", func(t *testing.T) {
		log := r.OnFinish(FinishContext{Method: m.withParams, Action: testAction, HasReturnValue: true})
		assert.Equal(t, "Action 'testAction' has successfully finished. Return value: [{}]", log.Message)
		assert.Equal(t, []any{nil}, log.Arguments)
	})

	t.Run("ignored_return_value", func(t *testing.T) {
		log := r.OnFinish(FinishContext{Method: m.withParams, Action: testAction})
		assert.Equal(t, "Action 'testAction' has successfully finished.", log.Message)
		assert.Empty(t, log.Arguments)
	})

	t.Run("void_method", func(t *testing.T) {
		log := r.OnFinish(FinishContext{Method: m.voidMethod, Action: testAction, HasReturnValue: true})
		assert.Equal(t, "Action 'testAction' has successfully finished.", log.Message)
		assert.Empty(t, log.Arguments)
	})
}

func TestThrowCarriesErrorOnly(t *testing.T) {
	m := newTestMethods(t)
	boom := errors.New("boom")

	for name, r := range map[string]ActionLogResolver{"console": ConsoleResolver{}, "structured": StructuredResolver{}} {
		t.Run(name, func(t *testing.T) {
			log := r.OnThrow(ThrowContext{Method: m.withParams, Action: testAction, Err: boom})
			assert.Equal(t, "Action 'testAction' has thrown an exception.", log.Message)
			require.Len(t, log.Arguments, 1)
			assert.Same(t, boom, log.Arguments[0])
		})
	}
}

func TestStructuredOnStart(t *testing.T) {
	m := newTestMethods(t)
	r := StructuredResolver{}

	t.Run("with_parameters", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.withParams, Action: testAction, Parameters: []any{"V0", 1}})
		assert.Equal(t, "Action 'testAction' has started.", log.Message)
		assert.Equal(t, []any{KeyValue{Key: "p0", Value: "V0"}, KeyValue{Key: "p1", Value: 1}}, log.Arguments)
	})

	t.Run("sensitive_parameter_dropped", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.withSecret, Action: testAction, Parameters: []any{"jane", "hunter2"}})
		assert.Equal(t, []any{KeyValue{Key: "user", Value: "jane"}}, log.Arguments)
	})

	t.Run("ignored_parameters", func(t *testing.T) {
		log := r.OnStart(StartContext{Method: m.withParams, Action: testAction})
		assert.Empty(t, log.Arguments)
	})
}

func TestStructuredOnFinish(t *testing.T) {
	m := newTestMethods(t)
	r := StructuredResolver{}

	t.Run("with_return_value", func(t *testing.T) {
		log := r.OnFinish(FinishContext{Method: m.withParams, Action: testAction, ReturnValue: "Result", HasReturnValue: true})
		assert.Equal(t, "Action 'testAction' has successfully finished.", log.Message)
		assert.Equal(t, []any{KeyValue{Key: ReturnValueKey, Value: "Result"}}, log.Arguments)
	})

	t.Run("nil_return_value_omitted", func(t *testing.T) {
		var p *struct{}
		log := r.OnFinish(FinishContext{Method: m.withParams, Action: testAction, ReturnValue: p, HasReturnValue: true})
		assert.Empty(t, log.Arguments)
	})

	t.Run("void_method", func(t *testing.T) {
		log := r.OnFinish(FinishContext{Method: m.voidMethod, Action: testAction, ReturnValue: "x", HasReturnValue: true})
		assert.Empty(t, log.Arguments)
	})

	t.Run("ignored_return_value", func(t *testing.T) {
		log := r.OnFinish(FinishContext{Method: m.withParams, Action: testAction, ReturnValue: "x"})
		assert.Empty(t, log.Arguments)
	})
}
