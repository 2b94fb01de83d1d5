package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONRequest(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		url         string
		body        interface{}
		expectError bool
	}{
		{
			name:   "valid POST with body",
			method: "POST",
			url:    "http://example.com/api",
			body:   map[string]string{"key": "value"},
		},
		{
			name:   "valid GET without body",
			method: "GET",
			url:    "http://example.com/api",
		},
		{
			name:        "invalid body",
			method:      "POST",
			url:         "http://example.com/api",
			body:        make(chan int), // Cannot be marshaled to JSON
			expectError: true,
		},
		{
			name:        "invalid url",
			method:      "GET",
			url:         "://bad",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewJSONRequest(context.Background(), tt.method, tt.url, tt.body)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Method != tt.method {
				t.Errorf("expected method %s, got %s", tt.method, req.Method)
			}
			if req.Header.Get("Accept") != "application/json" {
				t.Error("expected JSON accept header")
			}

			hasContentType := req.Header.Get("Content-Type") == "application/json"
			if tt.body != nil && !hasContentType {
				t.Error("expected JSON content type for request with body")
			}
			if tt.body == nil && hasContentType {
				t.Error("unexpected content type for request without body")
			}

			if tt.body != nil {
				var decoded map[string]string
				if err := json.NewDecoder(req.Body).Decode(&decoded); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if decoded["key"] != "value" {
					t.Errorf("unexpected body %v", decoded)
				}
			}
		})
	}
}

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantString string
	}{
		{
			name:       "message field",
			status:     400,
			body:       `{"message":"bad input"}`,
			wantMsg:    "bad input",
			wantString: "API error 400: bad input",
		},
		{
			name:    "hydra description",
			status:  422,
			body:    `{"hydra:title":"An error occurred","hydra:description":"address: This value is already used."}`,
			wantMsg: "address: This value is already used.",
		},
		{
			name:    "nested error",
			status:  500,
			body:    `{"error":{"message":"internal"}}`,
			wantMsg: "internal",
		},
		{
			name:    "plain text body",
			status:  503,
			body:    "down for maintenance",
			wantMsg: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.status, []byte(tt.body))
			if err.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, err.StatusCode)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, err.Message)
			}
			if tt.wantString != "" && err.Error() != tt.wantString {
				t.Errorf("expected %q, got %q", tt.wantString, err.Error())
			}
		})
	}
}

func TestNewAPIError_TruncatesBody(t *testing.T) {
	body := strings.Repeat("x", maxErrorBody*2)
	err := NewAPIError(500, []byte(body))
	if len(err.RawBody) != maxErrorBody {
		t.Errorf("expected raw body truncated to %d, got %d", maxErrorBody, len(err.RawBody))
	}
}

func TestAPIError_ErrorWithoutMessage(t *testing.T) {
	err := &APIError{StatusCode: 599}
	if err.Error() != "API error 599" {
		t.Errorf("unexpected error string %q", err.Error())
	}
}

func TestIsSuccess(t *testing.T) {
	for status, want := range map[int]bool{199: false, 200: true, 201: true, 299: true, 300: false, 404: false} {
		if got := IsSuccess(status); got != want {
			t.Errorf("IsSuccess(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct{ base, path, want string }{
		{"https://api.mail.gw", "/domains", "https://api.mail.gw/domains"},
		{"https://api.mail.gw/", "/domains", "https://api.mail.gw/domains"},
		{"https://www.textverified.com/api/", "Services", "https://www.textverified.com/api/Services"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestCommonHTTPHeaders(t *testing.T) {
	if CommonHTTPHeaders()["Accept"] != "application/json" {
		t.Error("expected JSON accept header")
	}
}
