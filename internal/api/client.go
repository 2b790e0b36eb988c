// Package api is the single path for every call to the Kora backend. It
// attaches the session credential to outbound requests and evicts the
// session on any 401, so callers never handle expiry themselves.
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
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api/"
	requestTimeout = 15 * time.Second
	userAgent      = "kora-control/1.0"
	maxErrorBody   = 4 << 10
)

// Session is the credential cell the client reads and evicts.
// *session.Manager satisfies it.
type Session interface {
	Token() (string, bool)
	Set(token string) error
	Clear() (bool, error)
}

// Navigator receives the client's navigation side effects.
type Navigator interface {
	// ToLogin is called once per 401 response after the session has
	// been cleared.
	ToLogin()
	// Open hands the whole client to an external URL, such as a payment
	// gateway checkout page.
	Open(url string) error
}

// NopNavigator ignores navigation.
type NopNavigator struct{}

func (NopNavigator) ToLogin() {}

func (NopNavigator) Open(string) error { return nil }

type Client struct {
	base    *url.URL
	http    *http.Client
	session Session
	nav     Navigator
	log     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client rooted at baseURL. Endpoint paths are resolved
// relative to it, so it should end in "/" (one is added if missing).
func New(baseURL string, sess Session, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{Timeout: requestTimeout},
		session: sess,
		nav:     NopNavigator{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Navigator returns the navigator the client reports side effects to.
func (c *Client) Navigator() Navigator {
	return c.nav
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// do issues one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	target := c.base.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With(
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(log)
		return fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// expire applies the process-wide 401 policy: drop the credential and
// send the user to login. It runs once per 401 response, whether or not
// an earlier response already cleared the session.
func (c *Client) expire(log *zap.Logger) {
	cleared, err := c.session.Clear()
	if err != nil {
		log.Error("clear session after 401", zap.Error(err))
	}
	log.Info("session rejected by server", zap.Bool("cleared", cleared))
	c.nav.ToLogin()
}
