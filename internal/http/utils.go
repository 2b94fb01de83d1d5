package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error body is kept for diagnostics
const maxErrorBody = 512

// NewJSONRequest creates a request with a JSON encoded body when body is non-nil
func NewJSONRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// APIError is a non-2xx response with a truncated body for diagnostics
type APIError struct {
	StatusCode int
	Message    string
	RawBody    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// IsSuccess reports whether the status code is 2xx
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// NewAPIError builds an APIError from a response body, extracting the common
// JSON error shapes ({"error": "..."}, {"message": "..."}, {"detail": "..."},
// and the hydra "hydra:description").
func NewAPIError(statusCode int, body []byte) *APIError {
	raw := string(body)
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}

	apiErr := &APIError{StatusCode: statusCode, RawBody: raw}

	var data map[string]interface{}
	if json.Unmarshal(body, &data) == nil {
		for _, key := range []string{"message", "detail", "hydra:description", "error"} {
			if msg, ok := data[key].(string); ok && msg != "" {
				apiErr.Message = msg
				return apiErr
			}
		}
		if nested, ok := data["error"].(map[string]interface{}); ok {
			if msg, ok := nested["message"].(string); ok {
				apiErr.Message = msg
				return apiErr
			}
		}
	}

	apiErr.Message = strings.TrimSpace(http.StatusText(statusCode))
	return apiErr
}

// CommonHTTPHeaders returns headers sent with every provider request
func CommonHTTPHeaders() map[string]string {
	return map[string]string{
		"Accept": "application/json",
	}
}

// JoinURL joins a base URL and a path without doubling slashes
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
