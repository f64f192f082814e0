// Package client is a typed HTTP client for the meals REST API.
//
// Every method maps to one endpoint. A failed call returns an *Error whose
// message is fixed per operation ("Failed to fetch meals", ...); the server's
// error body is discarded and transport failures look the same as non-2xx
// answers. The underlying cause stays reachable through errors.Unwrap.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type Error struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *Error) Error() string { return e.Op }

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type forwardedForKey struct{}

// WithForwardedFor makes requests sent with ctx carry ip in X-Forwarded-For.
// The pages use it so the API sees the browser, not the page server.
func WithForwardedFor(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, forwardedForKey{}, ip)
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// do performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if ip, ok := ctx.Value(forwardedForKey{}).(string); ok && ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func idPath(prefix string, id uint) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
