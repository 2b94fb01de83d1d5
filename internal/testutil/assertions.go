package testutil

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks that the HTTP status code matches the expected value.
func AssertStatusCode(t *testing.T, expected, actual int, msgAndArgs ...interface{}) {
	t.Helper()
	if expected != actual {
		msg := fmt.Sprintf("Expected status code %d (%s), got %d (%s)",
			expected, http.StatusText(expected),
			actual, http.StatusText(actual))
		if len(msgAndArgs) > 0 {
			msg = fmt.Sprintf("%s: %v", msg, msgAndArgs[0])
		}
		t.Error(msg)
	}
}

// AssertHeader checks that a recorded request carried header name with value
func AssertHeader(t *testing.T, req RecordedRequest, name, value string) {
	t.Helper()
	assert.Equal(t, value, req.Header.Get(name), "header %s on %s %s", name, req.Method, req.Path)
}

// AssertJSONBody compares a recorded request body with the expected JSON
func AssertJSONBody(t *testing.T, req RecordedRequest, expected string) {
	t.Helper()
	assert.JSONEq(t, expected, string(req.Body), "body of %s %s", req.Method, req.Path)
}

// RequireRequest fetches the last request to method and path or fails the test
func RequireRequest(t *testing.T, s *Stub, method, path string) RecordedRequest {
	t.Helper()
	req, ok := s.Last(method, path)
	require.True(t, ok, "expected a %s %s request", method, path)
	return req
}

// AssertNoRequests checks that the stub was never called
func AssertNoRequests(t *testing.T, s *Stub) {
	t.Helper()
	assert.Empty(t, s.Requests(), "expected no upstream requests")
}
