package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Do sends a request through h. A non-nil body is sent as JSON and a
// non-empty token as a bearer credential.
func Do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// ToJSONReader marshals v for use as a request body
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}

// EnvelopeData decodes the data member of a success envelope into T
func EnvelopeData[T any](t *testing.T, body []byte) T {
	t.Helper()

	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env), "Failed to parse JSON envelope")
	require.True(t, env.Success, "Expected success envelope, got %s", string(body))
	return env.Data
}

// EnvelopeErrorCode returns error.code of an error envelope
func EnvelopeErrorCode(t *testing.T, body []byte) string {
	t.Helper()

	var env struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &env), "Failed to parse JSON envelope")
	require.False(t, env.Success, "Expected error envelope, got %s", string(body))
	require.NotNil(t, env.Error, "Expected error object")
	return env.Error.Code
}
