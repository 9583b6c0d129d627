package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// BrowserClient sends a browser-like User-Agent.
	// Used for search-results pages, which block obvious bots.
	BrowserClient ClientType = "browser"

	// PlainClient sets no headers of its own.
	// Used for detail pages and documents.
	PlainClient ClientType = "plain"
)

// BrowserUserAgent is the User-Agent sent by BrowserClient.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

var (
	// ErrFetch wraps transport-level failures (DNS, connect, timeout, reset).
	ErrFetch = errors.New("fetch failed")

	// ErrUnexpectedStatus is returned for non-2xx responses when StrictStatus is enabled.
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// Fetcher retrieves the raw body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPClient wraps a resty client with configuration
type HTTPClient struct {
	client     *resty.Client
	clientType ClientType

	// StrictStatus turns non-2xx responses into ErrUnexpectedStatus.
	// Off by default: any response body counts as a successful fetch.
	StrictStatus bool
}

// NewClient creates a new HTTP client with the specified type and per-request timeout
func NewClient(clientType ClientType, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		// Follow up to 10 redirects
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	c := &HTTPClient{
		client:     client,
		clientType: clientType,
	}
	c.setHeaders()
	return c
}

// SetHeader adds a header sent with every request made by this client.
func (c *HTTPClient) SetHeader(key, value string) *HTTPClient {
	c.client.SetHeader(key, value)
	return c
}

// Type returns the client configuration type.
func (c *HTTPClient) Type() ClientType {
	return c.clientType
}

// Fetch issues a GET and returns the response body.
//
// Only transport failures are errors. The status code is not checked unless
// StrictStatus is set, so an error page body is returned like any other page.
func (c *HTTPClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}

	if c.StrictStatus && !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d (%s)", ErrUnexpectedStatus, resp.StatusCode(), url)
	}

	return resp.Body(), nil
}

// setHeaders sets the appropriate headers based on client type
func (c *HTTPClient) setHeaders() {
	switch c.clientType {
	case BrowserClient:
		c.client.SetHeader("User-Agent", BrowserUserAgent)

	case PlainClient:
		// No explicit headers

	default:
		// Default: use resty's default User-Agent
	}
}
