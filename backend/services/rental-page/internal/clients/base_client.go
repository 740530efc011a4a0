package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

var (
	// ErrDecode marks a response body that is not the expected JSON document.
	ErrDecode = errors.New("clients: decode response")
	// ErrBodyTooLarge marks a response body over maxResponseBytes.
	ErrBodyTooLarge = errors.New("clients: response body too large")
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// BaseClient provides simple request helpers against one backend.
type BaseClient struct {
	baseURL string
	client  HTTPDoer
	headers map[string]string
}

// NewBaseClient builds client with base URL.
func NewBaseClient(baseURL string, client HTTPDoer) *BaseClient {
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		headers: map[string]string{"Accept": "application/json"},
	}
}

// SetHeader adds a header sent with every request.
func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do executes HTTP request and returns status/body.
func (c *BaseClient) Do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return 0, nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if len(respBody) > maxResponseBytes {
		return resp.StatusCode, nil, fmt.Errorf("%w: %s over %d bytes", ErrBodyTooLarge, path, maxResponseBytes)
	}
	return resp.StatusCode, respBody, nil
}

// GetJSON issues a GET and decodes the body into out regardless of the status code: the
// rental backend reports failures inside the document. A body that does not decode, or is a
// bare null, yields an error wrapping ErrDecode.
func (c *BaseClient) GetJSON(ctx context.Context, path string, out interface{}) (int, error) {
	status, body, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return status, err
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return status, fmt.Errorf("%w: %s (http %d): null document", ErrDecode, path, status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return status, fmt.Errorf("%w: %s (http %d): %v", ErrDecode, path, status, err)
	}
	return status, nil
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
