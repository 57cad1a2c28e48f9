package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
)

// TestAPIKey is the shared key test servers are configured with.
const TestAPIKey = "test-api-key"

// TestBook returns a valid book payload as a client would send it.
func TestBook() map[string]any {
	return map[string]any{
		"isbn":             "978-0-13-468599-1",
		"title":            "Systems Design",
		"author":           "A. Engineer",
		"pageCount":        200,
		"shortDescription": "intro",
		"releaseDate":      "2024-05-01T00:00:00Z",
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAPIKey creates a new HTTP request carrying key in the Authorization header.
func NewRequestWithAPIKey(method, path string, body any, key string) *http.Request {
	r := NewRequest(method, path, body)
	if key != "" {
		r.Header.Set("Authorization", key)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
	Body   map[string]any
}

// RecordHTTPResponse records the HTTP response. Body is only filled for JSON objects.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
		Body:   bodyMap,
	}
}

// ErrorCode extracts error.code from an httpx error envelope.
func (rr RecordResponse) ErrorCode() string {
	errBody, ok := rr.Body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}
