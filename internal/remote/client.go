// Package remote is the HTTP client for the QuitoEmprende API: suggestions, search,
// favorites and the catalog listings.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 4 << 20
	defaultTimeout  = 15 * time.Second
)

// Options configures a Client
type Options struct {
	// BaseURL is the API root, e.g. https://api.quitoemprende.ec
	BaseURL string
	// HTTPClient defaults to a client with a 15s timeout
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the marketplace API. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger zerolog.Logger
}

// New creates a client for the given base URL
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute, got %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{base: base, http: httpClient, logger: logger}, nil
}

// endpoint joins path and query onto the base URL
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// getJSON issues a GET and decodes the JSON answer into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, query, token, nil, out)
}

// postJSON issues a POST with a JSON body and decodes the answer into out
func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, token, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	reqID := uuid.New().String()
	req.Header.Set(headerRequestID, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("%s %s: %w", method, path, ErrCanceled)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("%s %s: %w", method, path, ErrCanceled)
		}
		return fmt.Errorf("%s %s: failed to read body: %w", method, path, err)
	}

	c.logger.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Path: path, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrDecode, err)
	}
	return nil
}

// errorMessage pulls a human message out of an error body
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Msg
}

// decodeList accepts either a bare JSON array or an object wrapping it under key
func decodeList(data json.RawMessage, key string, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		inner, ok := wrapped[key]
		if !ok {
			return fmt.Errorf("%w: missing %q", ErrDecode, key)
		}
		trimmed = inner
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
