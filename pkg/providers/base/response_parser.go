package base

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	httputil "github.com/OlliePage/temp-identity-project/internal/http"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// maxResponseBody bounds how much of a response is read into memory
const maxResponseBody = 4 << 20

// ResponseParser interface for parsing HTTP responses
type ResponseParser interface {
	// ParseJSON reads and unmarshals JSON response body into target
	ParseJSON(resp *http.Response, target interface{}) error

	// ParseError extracts error information from HTTP response
	ParseError(resp *http.Response) error

	// CheckStatusCode validates HTTP status code and returns error if not accepted
	CheckStatusCode(resp *http.Response, accepted ...int) error
}

// DefaultResponseParser provides a default implementation of ResponseParser.
// All errors it returns are *types.ProviderError.
type DefaultResponseParser struct {
	provider string
}

// NewDefaultResponseParser creates a new DefaultResponseParser
func NewDefaultResponseParser(provider string) *DefaultResponseParser {
	return &DefaultResponseParser{provider: provider}
}

// ParseJSON reads and unmarshals JSON response body into target, closing the body
func (p *DefaultResponseParser) ParseJSON(resp *http.Response, target interface{}) error {
	if resp == nil {
		return types.NewMalformedError(p.provider, fmt.Errorf("response is nil"))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return types.NewNetworkError(p.provider, fmt.Errorf("failed to read response body: %w", err)).
			WithStatusCode(resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return types.NewMalformedError(p.provider, fmt.Errorf("failed to unmarshal response: %w", err)).
			WithStatusCode(resp.StatusCode)
	}

	return nil
}

// ParseError turns a non-2xx response into a ProviderError and closes the body.
// It returns nil for 2xx responses and leaves their body untouched.
func (p *DefaultResponseParser) ParseError(resp *http.Response) error {
	if resp == nil {
		return types.NewMalformedError(p.provider, fmt.Errorf("response is nil"))
	}
	if httputil.IsSuccess(resp.StatusCode) {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	apiErr := httputil.NewAPIError(resp.StatusCode, body)
	return types.NewHTTPError(p.provider, resp.StatusCode, apiErr.Message).WithOriginalErr(apiErr)
}

// CheckStatusCode accepts the listed status codes, or any 2xx when none are
// listed. A rejected response is closed and converted via ParseError.
func (p *DefaultResponseParser) CheckStatusCode(resp *http.Response, accepted ...int) error {
	if resp == nil {
		return types.NewMalformedError(p.provider, fmt.Errorf("response is nil"))
	}

	if len(accepted) == 0 {
		return p.ParseError(resp)
	}
	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}

	if httputil.IsSuccess(resp.StatusCode) {
		_ = resp.Body.Close()
		return types.NewHTTPError(p.provider, resp.StatusCode,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}
	return p.ParseError(resp)
}

// Drain closes a response whose body is not needed
func (p *DefaultResponseParser) Drain(resp *http.Response) {
	if resp == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	_ = resp.Body.Close()
}
