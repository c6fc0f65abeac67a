// Package api is the single authenticated transport between the DevHub client
// and the backend REST API.
//
// Every request carries the stored access token as a bearer credential when
// one is present. A 2xx response body is decoded as JSON into the caller's
// value; any other status is returned as *HTTPError with the backend payload
// kept verbatim, and a request that could not complete is returned as
// *NetworkError. The client never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/DevHub/internal/client/credentials"
)

// RequestIDHeader correlates a client request with backend log lines.
const RequestIDHeader = "X-Request-ID"

// CredentialSource supplies the token pair attached to outgoing requests.
type CredentialSource interface {
	Load() (credentials.Credential, bool, error)
}

// Client issues JSON requests against one backend base URL.
type Client struct {
	base  *url.URL
	http  *http.Client
	creds CredentialSource
	log   *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Client for baseURL, e.g. "http://localhost:8080/api/v1/".
// A missing trailing slash is added so that relative paths resolve below it.
// creds may be nil, in which case no Authorization header is ever sent.
func New(baseURL string, creds CredentialSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		base:  u,
		http:  http.DefaultClient,
		creds: creds,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Get issues a GET for path with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with in encoded as the JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, in, out)
}

// Do performs one request. path is relative to the base URL. in, when
// non-nil, is encoded as the JSON body; out, when non-nil, receives the
// decoded 2xx body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	if c.creds != nil {
		cred, ok, err := c.creds.Load()
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
		if ok {
			req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return &NetworkError{Method: method, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: u.String(), Err: err}
	}

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode/100 != 2 {
		return &HTTPError{
			Method:     method,
			URL:        u.String(),
			StatusCode: resp.StatusCode,
			Payload:    payload,
		}
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
