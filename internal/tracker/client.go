package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds one announce round trip.
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 2 << 20
)

// Client announces to HTTP trackers.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for announces. The client is
// copied, so later options never modify the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each announce round trip. A zero duration keeps the
// timeout of the client given to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new tracker client
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	var hc http.Client
	if c.httpClient != nil {
		hc = *c.httpClient
	} else {
		hc.Timeout = DefaultTimeout
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c
}

// Announce sends req to the tracker at announceURL and decodes its answer.
func (c *Client) Announce(ctx context.Context, announceURL string, req Request) (*Response, error) {
	trackerURL, err := BuildURL(announceURL, req)
	if err != nil {
		return nil, err
	}

	body, err := c.fetch(ctx, trackerURL)
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse(body)
	if err != nil {
		return nil, err
	}
	if resp.WarningMessage != "" {
		slog.Warn("tracker warning", "tracker", announceURL, "message", resp.WarningMessage)
	}

	slog.Debug("tracker responded",
		"tracker", announceURL, "interval", resp.Interval, "peers", len(resp.Peers))
	return resp, nil
}

// fetch performs the GET and returns the raw body.
func (c *Client) fetch(ctx context.Context, trackerURL string) ([]byte, error) {
	slog.Debug("announcing", "url", trackerURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, trackerURL, nil)
	if err != nil {
		return nil, &TransportError{URL: trackerURL, Err: err}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: trackerURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: trackerURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, &TransportError{URL: trackerURL, StatusCode: resp.StatusCode, Err: err}
	}
	if len(body) > maxResponseSize {
		return nil, &TransportError{
			URL:        trackerURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response larger than %d bytes", maxResponseSize),
		}
	}
	return body, nil
}

// Close cleans up the tracker client
func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}
