// Package transport downloads source documents over HTTP. Bodies are kept in
// an in-memory cache so one archive is fetched once per process even when
// several sources read members of it.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/agentstation/tallycheck/internal/cache"
	"github.com/agentstation/tallycheck/pkg/constants"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// UserAgent is sent with every request.
const UserAgent = "tallycheck (+https://github.com/agentstation/tallycheck)"

// Client fetches documents with caching.
type Client struct {
	http    *http.Client
	cache   *cache.Cache
	maxSize int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache replaces the body cache. A nil cache disables caching.
func WithCache(bc *cache.Cache) Option {
	return func(c *Client) {
		c.cache = bc
	}
}

// WithMaxSize bounds the body size read from a response.
func WithMaxSize(n int64) Option {
	return func(c *Client) {
		c.maxSize = n
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		cache:   cache.NewDefault(),
		maxSize: constants.MaxDocumentSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get downloads rawURL and returns its body. Anything but 200 OK is an
// *errors.APIError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	logger := logging.FromContext(ctx)

	if c.cache != nil {
		if body, ok := c.cache.Get(rawURL); ok {
			logger.Debug().Str("url", rawURL).Int("bytes", len(body)).Msg("Using cached document")
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.NewValidationError("web_url", rawURL, err.Error())
	}
	req.Header.Set("User-Agent", UserAgent)

	logger.Debug().Str("url", rawURL).Msg("Downloading document")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Source:   host(rawURL),
			Endpoint: rawURL,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Source:     host(rawURL),
			Endpoint:   rawURL,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, errors.WrapIO("read", rawURL, err)
	}
	if int64(len(body)) > c.maxSize {
		return nil, &errors.APIError{
			Source:     host(rawURL),
			Endpoint:   rawURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("document larger than %d bytes", c.maxSize),
		}
	}

	logger.Debug().Str("url", rawURL).Int("bytes", len(body)).Msg("Downloaded document")
	if c.cache != nil {
		c.cache.Set(rawURL, body)
	}
	return body, nil
}

// Flush drops every cached body and returns how many were held.
func (c *Client) Flush() int {
	if c.cache == nil {
		return 0
	}
	n := c.cache.ItemCount()
	c.cache.Clear()
	return n
}

func host(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}
