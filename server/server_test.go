package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-bricks-actionlog/action"
	"github.com/gaborage/go-bricks-actionlog/config"
	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
	"github.com/gaborage/go-bricks-actionlog/internal/testutil"
	"github.com/gaborage/go-bricks-actionlog/logger"
	"github.com/gaborage/go-bricks-actionlog/trace"
	"github.com/gaborage/go-bricks-actionlog/writer"
)

const userRoute = "/users/:id"

func newTestInterceptor(t *testing.T) (*interceptor.Interceptor, logger.Logger, *testutil.LogBuffer) {
	t.Helper()
	log, buf := testutil.NewLogger("debug")
	chain, err := writer.NewChain(writer.NewDefaultLogWriter(log, writer.ConsoleResolver{}))
	require.NoError(t, err)
	ic, err := interceptor.New(action.NewChain(), chain)
	require.NoError(t, err)
	return ic, log, buf
}

func newTestServer(t *testing.T) (*Server, *testutil.LogBuffer) {
	t.Helper()
	cfg, err := config.LoadFromBytes(nil)
	require.NoError(t, err)
	ic, log, buf := newTestInterceptor(t)
	s := New(cfg, log, ic)

	s.Echo().GET(userRoute, func(c echo.Context) error {
		if logger.ActionFromContext(c.Request().Context()) != "HTTP::GET /users/:id" {
			return errors.New("ambient action not visible to handler")
		}
		return c.String(http.StatusOK, "user "+c.Param("id"))
	})
	s.Echo().GET("/fail", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "conflict")
	})
	s.Echo().GET("/panic", func(echo.Context) error {
		panic("handler exploded")
	})
	return s, buf
}

func serve(s *Server, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestRouteIsLoggedAsAction(t *testing.T) {
	s, buf := newTestServer(t)

	rec := serve(s, "/users/42", http.Header{trace.HeaderXRequestID: []string{"req-123"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user 42", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(trace.HeaderXRequestID))

	entries := buf.Entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, "Action 'HTTP::GET /users/:id' has started. Parameters: [id=42]", entries[0]["message"])
	assert.Equal(t, "Action 'HTTP::GET /users/:id' has successfully finished. Return value: [200]", entries[1]["message"])
	for _, e := range entries {
		assert.Equal(t, "req-123", e[logger.RequestIDKey])
		assert.Equal(t, "HTTP::GET /users/:id", e[logger.ActionKey])
		assert.Equal(t, DefaultRouteTypeName, e["logger"])
	}
}

func TestGeneratedRequestID(t *testing.T) {
	s, buf := newTestServer(t)

	rec := serve(s, "/users/7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	requestID := rec.Header().Get(trace.HeaderXRequestID)
	assert.NotEmpty(t, requestID)

	entries := buf.Entries(t)
	require.NotEmpty(t, entries)
	assert.Equal(t, requestID, entries[0][logger.RequestIDKey])
}

func TestHandlerErrorIsLoggedAsThrow(t *testing.T) {
	s, buf := newTestServer(t)

	rec := serve(s, "/fail", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	entries := buf.Entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, "Action 'HTTP::GET /fail' has thrown an exception.", entries[1]["message"])
	assert.Equal(t, "error", entries[1]["level"])
	assert.Contains(t, entries[1]["error"], "conflict")
}

func TestPanicIsLoggedAndRecovered(t *testing.T) {
	s, buf := newTestServer(t)

	rec := serve(s, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var thrown, recovered bool
	for _, e := range buf.Entries(t) {
		switch e["message"] {
		case "Action 'HTTP::GET /panic' has thrown an exception.":
			thrown = true
			assert.Contains(t, e["error"], "handler exploded")
		case "Panic recovered":
			recovered = true
		}
	}
	assert.True(t, thrown)
	assert.True(t, recovered)
}

func TestUnmatchedRouteIsNotNamedAfterURL(t *testing.T) {
	s, buf := newTestServer(t)

	rec := serve(s, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, buf.String(), "/nowhere")
}

func TestActionWithConfig(t *testing.T) {
	ic, _, buf := newTestInterceptor(t)
	e := echo.New()
	e.Use(ActionWithConfig(ic, ActionConfig{
		TypeName:   "Orders",
		Descriptor: descriptor.Descriptor{Level: descriptor.LevelDebug, IgnoreReturnValue: true},
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
	}))
	e.GET("/orders/:id/items/:item", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/orders/1/items/2", "/orders/3/items/4", "/health"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	entries := buf.Entries(t)
	require.Len(t, entries, 4)
	assert.Equal(t, "Action 'Orders::GET /orders/:id/items/:item' has started. Parameters: [id=1, item=2]", entries[0]["message"])
	assert.Equal(t, "Action 'Orders::GET /orders/:id/items/:item' has successfully finished.", entries[1]["message"])
	assert.Equal(t, "debug", entries[0]["level"])
	assert.Equal(t, "Action 'Orders::GET /orders/:id/items/:item' has started. Parameters: [id=3, item=4]", entries[2]["message"])
}

func TestRouteMethodsAreReused(t *testing.T) {
	r := &routeMethods{cfg: ActionConfig{TypeName: DefaultRouteTypeName}}

	first, err := r.method(http.MethodGet, userRoute, []string{"id"})
	require.NoError(t, err)
	second, err := r.method(http.MethodGet, userRoute, []string{"id"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "HTTP.GET /users/:id", first.ID())
	_, described := first.Effective()
	assert.True(t, described)
}
