// Package netclient is the resilient HTTP layer shared by every backend
// call: per-attempt timeout, linear backoff retry, and JSON/text content
// negotiation.
package netclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"mailmap/internal/common"
)

type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	maxRetries  int
	backoffBase time.Duration
}

// Options describes a single logical request. Body is kept as bytes so a
// failed attempt can be replayed.
type Options struct {
	Method string
	Header map[string]string
	Body   []byte
}

// Response is either parsed JSON or raw text, depending on what the server
// declared in its Content-Type.
type Response struct {
	IsJSON bool
	JSON   json.RawMessage
	Text   string
}

// Decode unmarshals a JSON response into v. Plain-text responses decode
// only into *string.
func (r *Response) Decode(v interface{}) error {
	if !r.IsJSON {
		if s, ok := v.(*string); ok {
			*s = r.Text
			return nil
		}
		return fmt.Errorf("response is not JSON: %q", r.Text)
	}
	return json.Unmarshal(r.JSON, v)
}

func New(timeout time.Duration, maxRetries int, backoffBase time.Duration) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		httpClient:  &http.Client{},
		timeout:     timeout,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
	}
}

// Request performs the call with up to maxRetries attempts. Failed attempts
// back off linearly (attempt index times the base delay); the last failing
// attempt's error propagates to the caller unmodified.
func (c *Client) Request(ctx context.Context, url string, opts Options) (*Response, error) {
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		resp, err := c.attempt(ctx, url, opts)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		log.Printf("Attempt %d failed: %v", i+1, err)

		if i == c.maxRetries-1 {
			break
		}
		select {
		case <-time.After(time.Duration(i+1) * c.backoffBase):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, url string, opts Options) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range opts.Header {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpError(resp, raw)
	}

	if isJSONContent(resp.Header.Get("Content-Type")) {
		return &Response{IsJSON: true, JSON: raw}, nil
	}
	return &Response{Text: string(raw)}, nil
}

// httpError combines the status code with any server-supplied message.
// Non-JSON bodies fall back to the status text alone.
func httpError(resp *http.Response, raw []byte) error {
	httpErr := &common.HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &errBody); err == nil && errBody.Message != "" {
		httpErr.Message = errBody.Message
	} else if err == nil && len(raw) > 0 {
		httpErr.Message = string(raw)
	}
	return httpErr
}

func isJSONContent(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
