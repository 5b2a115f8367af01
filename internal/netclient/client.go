package netclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/postboard/internal/reachability"
)

// Method is an HTTP verb the client is allowed to send.
type Method string

const (
	GET    Method = http.MethodGet
	POST   Method = http.MethodPost
	PUT    Method = http.MethodPut
	DELETE Method = http.MethodDelete
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case GET, POST, PUT, DELETE:
		return true
	}
	return false
}

// Requester performs a single request and returns the response body.
// *Client implements it; tests substitute in-memory fakes.
type Requester interface {
	Request(ctx context.Context, rawURL string, method Method) ([]byte, error)
}

// Ensure Client implements Requester at compile time.
var _ Requester = (*Client)(nil)

const (
	defaultUserAgent = "postboard/0.1"
	defaultTimeout   = 10 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. The transport client is copied
// first, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request/response tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log.With().Str("component", "netclient").Logger()
	}
}

// Client issues HTTP requests gated by a reachability observer.
type Client struct {
	reach     reachability.Observer
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

// NewClient builds a Client that refuses to send while reach reports no network.
func NewClient(reach reachability.Observer, opts ...Option) *Client {
	c := &Client{
		reach:     reach,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request sends method to rawURL and returns the non-empty response body.
func (c *Client) Request(ctx context.Context, rawURL string, method Method) ([]byte, error) {
	body, err := c.perform(ctx, rawURL, method)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		c.log.Error().Str("url", rawURL).Msg("no data received")
		return nil, ErrNoData
	}
	return body, nil
}

// RequestVoid sends method to rawURL and only checks that it succeeded.
func (c *Client) RequestVoid(ctx context.Context, rawURL string, method Method) error {
	_, err := c.perform(ctx, rawURL, method)
	return err
}

// Decode sends method to rawURL through r and unmarshals the JSON body into T.
func Decode[T any](ctx context.Context, r Requester, rawURL string, method Method) (T, error) {
	var out T
	body, err := r.Request(ctx, rawURL, method)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, ErrDecoding
	}
	return out, nil
}

func (c *Client) perform(ctx context.Context, rawURL string, method Method) ([]byte, error) {
	if c.reach != nil && !c.reach.Current() {
		c.log.Warn().Str("url", rawURL).Msg("no network connection available")
		return nil, ErrNoNetwork
	}

	u, err := parseURL(rawURL)
	if err != nil || !method.Valid() {
		c.log.Error().Str("url", rawURL).Str("method", string(method)).Msg("invalid url")
		return nil, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, string(method), u.String(), nil)
	if err != nil {
		c.log.Error().Err(err).Str("url", rawURL).Msg("create request")
		return nil, ErrInvalidURL
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	c.logRequest(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("url", rawURL).Msg("request failed")
		return nil, ErrInvalidResponse
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Err(err).Str("url", rawURL).Msg("read response body")
		return nil, ErrInvalidResponse
	}
	c.logResponse(resp, body, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, StatusError(resp.StatusCode)
	}
	return body, nil
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &url.Error{Op: "parse", URL: rawURL, Err: errUnsupportedScheme}
	}
	if u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: rawURL, Err: errMissingHost}
	}
	return u, nil
}
