// Package backend is the REST client for the event-registration backend. It
// attaches the installed bearer credential, unwraps response envelopes and
// classifies failures.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/campus-events/internal/logging"
	"github.com/example/campus-events/internal/session"
)

const maxResponseBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Credential *session.Credential
	// OnUnauthorized runs after a 401 from any request other than a login
	// attempt.
	OnUnauthorized func(ctx context.Context)
	Logger         *slog.Logger
	RequestID      func() string
}

// Client calls the backend REST API.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	credential     *session.Credential
	onUnauthorized func(ctx context.Context)
	logger         *slog.Logger
	requestID      func() string
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("backend: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: invalid base URL %q", raw)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	credential := opts.Credential
	if credential == nil {
		credential = session.NewCredential()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	requestID := opts.RequestID
	if requestID == nil {
		requestID = uuid.NewString
	}

	return &Client{
		baseURL:        base,
		http:           httpClient,
		credential:     credential,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
		requestID:      requestID,
	}, nil
}

// SetUnauthorizedHandler replaces the 401 hook.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	// login marks requests issued from the login view; a 401 there is a
	// failed attempt, not an expired session.
	login bool
}

func (c *Client) log(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger.With("component", "backend")
	}
	return c.logger.With("component", "backend")
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + cl.path
	if len(cl.query) > 0 {
		endpoint.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		encoded, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := c.requestID()
	req.Header.Set("X-Request-ID", requestID)
	c.credential.Apply(req)

	logger := c.log(ctx).With("method", cl.method, "path", cl.path, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "backend request failed", "error", err, "duration", time.Since(start))
		return &TransportError{Method: cl.method, Path: cl.path, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Method: cl.method, Path: cl.path, Err: fmt.Errorf("read response: %w", err)}
	}

	logger = logger.With("status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Method:  cl.method,
			Path:    cl.path,
			Status:  resp.StatusCode,
			Message: errorMessage(payload),
		}
		logger.WarnContext(ctx, "backend request rejected", "error", statusErr)
		if resp.StatusCode == http.StatusUnauthorized && !cl.login && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return statusErr
	}

	if err := decodePayload(cl.method, cl.path, payload, out); err != nil {
		logger.WarnContext(ctx, "backend response not usable", "error", err)
		return err
	}
	logger.DebugContext(ctx, "backend request completed")
	return nil
}

func idQuery(key, value string) url.Values {
	return url.Values{key: []string{value}}
}
