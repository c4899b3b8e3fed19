// Package client is the HTTP transport to the land-registry provider gateway.
// It returns raw JSON payloads for searches and provisional orders and typed
// per-line results for order placement.  Requests are never retried; every
// retry is an explicit re-invocation by the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/titleorder/pkg/errors"
)

const Version = "0.1.0"

// maxPayloadBytes bounds a single provider response.
const maxPayloadBytes = 16 << 20

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to the provider gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	userAgent  string
	logger     Logger
}

// TransportError is returned for every failed exchange with the gateway.
// Unavailable is set for network failures, timeouts, 429 and 5xx responses.
type TransportError struct {
	Op          string
	StatusCode  int
	Unavailable bool
	RequestID   string
	Body        []byte
	Err         error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "titleorder: %s failed", e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if e.RequestID != "" {
		b.WriteString(" [request_id=" + e.RequestID + "]")
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether the gateway answered 404.
func (e *TransportError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsUnavailable reports whether err is a TransportError marked unavailable.
func IsUnavailable(err error) bool {
	var te *TransportError
	return stderrors.As(err, &te) && te.Unavailable
}

// NewClient creates a Client for baseURL.  apiKey may be empty for gateways
// that do not authenticate.
func NewClient(baseURL string, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.InvalidParam("provider base URL is required")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid provider base URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.InvalidParam("provider base URL scheme must be http or https")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  fmt.Sprintf("titleorder-go/%s", Version),
		logger:     noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do performs one request and returns the raw response body.
func (c *Client) do(ctx context.Context, op, method, path string, body interface{}) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request body")
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	requestID := uuid.New().String()
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("%s %s failed: %v", method, path, err)
		return nil, &TransportError{Op: op, RequestID: requestID, Unavailable: isNetworkError(ctx, err), Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, RequestID: requestID, Unavailable: true, Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &TransportError{
			Op:          op,
			StatusCode:  resp.StatusCode,
			RequestID:   requestID,
			Unavailable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Body:        respBody,
			Err:         stderrors.New(errorMessage(respBody, resp.Status)),
		}
	}
	return respBody, nil
}

// isNetworkError reports whether err came from the network rather than from
// the caller cancelling ctx.
func isNetworkError(ctx context.Context, err error) bool {
	if stderrors.Is(ctx.Err(), context.Canceled) {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return stderrors.As(err, &urlErr)
}

func errorMessage(body []byte, fallback string) string {
	var env struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && env.Message != "" {
		return env.Message
	}
	return fallback
}

// Ping checks that the gateway answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/health", nil)
	return err
}
