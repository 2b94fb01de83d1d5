package base

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	httputil "github.com/OlliePage/temp-identity-project/internal/http"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// RequestHandler executes HTTP requests against one provider's API
type RequestHandler interface {
	// ExecuteRequest sends method to baseURL+path with an optional JSON body
	ExecuteRequest(ctx context.Context, method, path string, body interface{}, headers map[string]string) (*http.Response, error)
}

// DefaultRequestHandler provides a default implementation of RequestHandler
type DefaultRequestHandler struct {
	client   *httputil.HTTPClient
	provider string
	baseURL  string
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewDefaultRequestHandler creates a new DefaultRequestHandler
func NewDefaultRequestHandler(client *httputil.HTTPClient, provider, baseURL string, logger *zap.Logger) *DefaultRequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultRequestHandler{
		client:   client,
		provider: provider,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// ExecuteRequest sends a single request. Transport failures come back as a
// network ProviderError; the caller owns the response body otherwise.
func (h *DefaultRequestHandler) ExecuteRequest(ctx context.Context, method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := httputil.JoinURL(h.GetBaseURL(), path)
	logger := h.getLogger()
	start := time.Now()

	resp, err := h.client.DoJSON(ctx, method, url, body, headers)
	if err != nil {
		logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, types.NewNetworkError(h.provider, err)
	}

	logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return resp, nil
}

// GetBaseURL returns the base URL for API requests
func (h *DefaultRequestHandler) GetBaseURL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.baseURL
}

// SetLogger replaces the request logger
func (h *DefaultRequestHandler) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

func (h *DefaultRequestHandler) getLogger() *zap.Logger {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.logger
}
