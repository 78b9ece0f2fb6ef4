package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	HeaderAPIKey        = "x-api-key"
	HeaderAuthorization = "Authorization"

	// DefaultTimeout bounds a single gateway call; cancellation of the
	// caller's context still applies first.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 64 << 10
)

// Observer receives one callback per completed gateway call. Status is 0
// when the request failed before a response arrived.
type Observer interface {
	ObserveCall(operation string, status int, elapsed time.Duration)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client calls the gateway's /admin, /auth and /me endpoints. A call is a
// single request: there are no retries, backoff or circuit breaking here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	observer   Observer

	mu     sync.RWMutex
	apiKey string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: NewHTTPClient(DefaultTimeout),
		userAgent:  "gwconsole/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient returns an http.Client with dial and header timeouts suited
// to an interactive console.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAPIKey sets the admin key sent as x-api-key. An empty key stops the
// header from being sent.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

type call struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	bearer    string
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.operation, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.operation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if key := c.APIKey(); key != "" {
		httpReq.Header.Set(HeaderAPIKey, key)
	}
	if req.bearer != "" {
		httpReq.Header.Set(HeaderAuthorization, "Bearer "+req.bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(req.operation, 0, time.Since(start))
		log.Debug().Err(err).Str("operation", req.operation).Msg("gateway request failed")
		return fmt.Errorf("%s: %w", req.operation, err)
	}
	defer resp.Body.Close()
	c.observe(req.operation, resp.StatusCode, time.Since(start))

	log.Debug().
		Str("operation", req.operation).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("gateway call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.operation, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.operation, err)
	}
	return nil
}

func (c *Client) observe(operation string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveCall(operation, status, elapsed)
	}
}

func pathID(prefix, id string, suffix ...string) string {
	parts := append([]string{prefix, url.PathEscape(id)}, suffix...)
	return strings.Join(parts, "/")
}

func setInt(q url.Values, name string, v int) {
	if v > 0 {
		q.Set(name, fmt.Sprint(v))
	}
}

func setString(q url.Values, name, v string) {
	if v != "" {
		q.Set(name, v)
	}
}
