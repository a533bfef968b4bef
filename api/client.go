// Package api is the REST client for the store backend. Every outbound
// request passes through a single decoration step that attaches the
// current session credential, and every unauthorized response triggers
// a single handler, so the credential contract is enforced by
// construction rather than convention.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxResponseBody = 1 << 20 // 1 MiB

// Decorator attaches ambient credentials to an outbound request. It
// must be a pure pass-through when no credential is held.
type Decorator interface {
	Attach(r *http.Request)
}

// Client talks to the store backend. All requests, including the
// anonymous auth exchanges, go through the same decoration step.
type Client struct {
	baseURL        string
	httpc          *http.Client
	decorator      Decorator
	onUnauthorized func()
	log            *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithDecorator sets the request decorator. Without one, requests are
// issued without credentials.
func WithDecorator(d Decorator) Option {
	return func(c *Client) {
		c.decorator = d
	}
}

// WithUnauthorizedHandler registers a handler invoked whenever a
// privileged call is rejected as unauthorized, before the error is
// returned to the caller.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithClientLogger sets the client's logger. Defaults to slog.Default().
func WithClientLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client for the backend at baseURL (e.g.
// "http://localhost:3000/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.decorator != nil {
		c.decorator.Attach(req)
	}
	return req, nil
}

// do issues a privileged request and decodes a 2xx response into out.
// An unauthorized response invokes the unauthorized handler and returns
// ErrUnauthorized; any other rejection is returned as a BackendError
// with the server-supplied message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.log.Warn("credential rejected by backend",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &BackendError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// postAuth issues an auth exchange. Unlike do, any HTTP status with a
// parseable body yields a structured AuthResult: rejected credentials
// are an expected outcome, not an unauthorized-credential event.
func (c *Client) postAuth(ctx context.Context, path string, body any) (AuthResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return AuthResult{}, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return AuthResult{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return AuthResult{}, &TransportError{Err: err}
	}

	var parsed authResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return AuthResult{Success: false, Message: resp.Status}, nil
		}
		return AuthResult{}, &TransportError{Err: fmt.Errorf("decoding auth response: %w", err)}
	}
	return AuthResult{
		Success: parsed.Success,
		Token:   parsed.Token,
		Admin:   parsed.Admin,
		Message: parsed.Message,
	}, nil
}

func serverMessage(data []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(data))
}
