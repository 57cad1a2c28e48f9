package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	headers := http.Header{}
	headers.Set("Location", "/books/1")

	err := JSON(w, http.StatusCreated, map[string]string{"isbn": "1"}, headers)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "/books/1", w.Header().Get("Location"))
	assert.JSONEq(t, `{"isbn":"1"}`, w.Body.String())
}

func TestJSONErrorWithRequest_IncludesRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-123"))
	w := httptest.NewRecorder()

	JSONErrorWithRequest(r, w, http.StatusNotFound, "NOT_FOUND", "missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{
		"success": false,
		"error": {"code": "NOT_FOUND", "message": "missing"},
		"meta": {"request_id": "req-123"}
	}`, w.Body.String())
}

func TestJSONError_WithoutRequest(t *testing.T) {
	w := httptest.NewRecorder()

	JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API KEY", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "meta")
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		PageCount int    `json:"pageCount"`
		Title     string `json:"title"`
	}

	t.Run("case-insensitive property names", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"PAGECOUNT": 3, "Title": "x"}`))
		var p payload
		require.NoError(t, ReadJSON(r, &p))
		assert.Equal(t, payload{PageCount: 3, Title: "x"}, p)
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(""))
		var p payload
		assert.EqualError(t, ReadJSON(r, &p), "body must not be empty")
	})

	t.Run("multiple values", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"a"}{"title":"b"}`))
		var p payload
		assert.EqualError(t, ReadJSON(r, &p), "body must only contain a single JSON value")
	})

	t.Run("wrong type", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"pageCount":"many"}`))
		var p payload
		assert.Error(t, ReadJSON(r, &p))
	})
}

func TestRouterMissHandlers(t *testing.T) {
	w := httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = httptest.NewRecorder()
	MethodNotAllowedHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/books", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "PATCH")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 2)
	defer rl.Close()
	handler := rl.Middleware(okHandler())

	send := func(addr string) int {
		r := httptest.NewRequest(http.MethodGet, "/books", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111"))
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:4321"
	assert.Equal(t, "192.0.2.1", clientKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientKey(r))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-Id"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "upstream-id")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, "upstream-id", seen)

	for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("a", 65)} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-Id", bad)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.NotEqual(t, bad, seen)
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get("X-Request-Id"))
	}
}

func TestAccessLogAndRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), RequestIDMiddleware, AccessLogMiddleware(logger), RecoveryMiddleware(logger))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/books/1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, logs.String(), `"msg":"panic recovered"`)
	assert.Contains(t, logs.String(), `"status":500`)
	assert.Contains(t, logs.String(), `"path":"/books/1"`)
}
