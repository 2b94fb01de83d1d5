// Package http provides the HTTP client shared by all provider adapters.
// It applies a per-request timeout, default headers and optional client-side
// rate limiting, and keeps simple request counters.
// It never retries: polling is the only place where requests repeat.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single upstream request
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is sent when no user agent is configured
const DefaultUserAgent = "tempidentity/1.0"

// HTTPClient provides a reusable HTTP client with common patterns for provider adapters
type HTTPClient struct {
	client       *http.Client
	config       HTTPClientConfig
	limiter      *rate.Limiter
	metrics      *ClientMetrics
	requestCount int64
	successCount int64
	errorCount   int64
	totalLatency int64 // Nanoseconds
	mu           sync.RWMutex
}

// HTTPClientConfig configures the HTTP client
type HTTPClientConfig struct {
	Timeout   time.Duration     `json:"timeout,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	RateLimit float64           `json:"rate_limit,omitempty"` // requests per second, 0 disables
	RateBurst int               `json:"rate_burst,omitempty"`
	Transport http.RoundTripper `json:"-"`
}

// ClientMetrics tracks HTTP client performance
type ClientMetrics struct {
	TotalRequests   int64         `json:"total_requests"`
	SuccessfulReqs  int64         `json:"successful_requests"`
	FailedReqs      int64         `json:"failed_requests"`
	AvgLatency      time.Duration `json:"avg_latency"`
	LastRequestTime time.Time     `json:"last_request_time"`
	StatusCodes     map[int]int64 `json:"status_codes"`
}

// NewHTTPClient creates a new HTTP client with common configurations
func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	headers := make(map[string]string, len(config.Headers)+1)
	for k, v := range config.Headers {
		headers[k] = v
	}
	if _, ok := headers["User-Agent"]; !ok {
		headers["User-Agent"] = DefaultUserAgent
	}
	config.Headers = headers

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		config:  config,
		limiter: limiter,
		metrics: &ClientMetrics{StatusCodes: make(map[int]int64)},
	}
}

// Do executes an HTTP request once, honoring the rate limiter and ctx
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	atomic.AddInt64(&c.requestCount, 1)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.updateMetrics(nil, err, time.Since(startTime))
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req = req.WithContext(ctx)

	for key, value := range c.config.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.client.Do(req)
	c.updateMetrics(resp, err, time.Since(startTime))
	return resp, err
}

// DoJSON sends a request with an optional JSON body and extra headers
func (c *HTTPClient) DoJSON(ctx context.Context, method, url string, body interface{}, headers map[string]string) (*http.Response, error) {
	req, err := NewJSONRequest(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}

// updateMetrics updates client metrics after a request
func (c *HTTPClient) updateMetrics(resp *http.Response, err error, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.LastRequestTime = time.Now()

	if err != nil {
		atomic.AddInt64(&c.errorCount, 1)
	} else {
		atomic.AddInt64(&c.successCount, 1)
		if resp != nil {
			c.metrics.StatusCodes[resp.StatusCode]++
		}
	}

	atomic.AddInt64(&c.totalLatency, latency.Nanoseconds())
	if totalReqs := atomic.LoadInt64(&c.requestCount); totalReqs > 0 {
		c.metrics.AvgLatency = time.Duration(atomic.LoadInt64(&c.totalLatency) / totalReqs)
	}
}

// GetMetrics returns current client metrics
func (c *HTTPClient) GetMetrics() ClientMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics := *c.metrics
	metrics.StatusCodes = make(map[int]int64, len(c.metrics.StatusCodes))
	for k, v := range c.metrics.StatusCodes {
		metrics.StatusCodes[k] = v
	}
	metrics.TotalRequests = atomic.LoadInt64(&c.requestCount)
	metrics.SuccessfulReqs = atomic.LoadInt64(&c.successCount)
	metrics.FailedReqs = atomic.LoadInt64(&c.errorCount)

	return metrics
}

// HTTPClientBuilder provides a builder pattern for HTTPClient
type HTTPClientBuilder struct {
	config HTTPClientConfig
}

// NewHTTPClientBuilder creates a new builder
func NewHTTPClientBuilder() *HTTPClientBuilder {
	return &HTTPClientBuilder{}
}

// WithTimeout sets the timeout
func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithHeaders sets default headers
func (b *HTTPClientBuilder) WithHeaders(headers map[string]string) *HTTPClientBuilder {
	if b.config.Headers == nil {
		b.config.Headers = make(map[string]string)
	}
	for k, v := range headers {
		b.config.Headers[k] = v
	}
	return b
}

// WithRateLimit enables client-side rate limiting
func (b *HTTPClientBuilder) WithRateLimit(perSecond float64, burst int) *HTTPClientBuilder {
	b.config.RateLimit = perSecond
	b.config.RateBurst = burst
	return b
}

// WithTransport overrides the round tripper
func (b *HTTPClientBuilder) WithTransport(rt http.RoundTripper) *HTTPClientBuilder {
	b.config.Transport = rt
	return b
}

// Build creates the HTTP client
func (b *HTTPClientBuilder) Build() *HTTPClient {
	return NewHTTPClient(b.config)
}
