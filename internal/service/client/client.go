package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oshokin/alarm-clock/internal/api/http/intake"
	"github.com/oshokin/alarm-clock/internal/api/http/stop"
)

// DefaultCallTimeout bounds a single request.
const DefaultCallTimeout = 5 * time.Second

// maxBodyBytes caps how much of an error response is kept.
const maxBodyBytes = 512

// Settings is a settings submission.
type Settings struct {
	// RingTime is "HH:MM".
	RingTime string
	// Ringtone is a file name from the allow-list.
	Ringtone string
	// Snooze is the snooze length in seconds.
	Snooze string
}

// Client posts forms to one controller endpoint.
type Client struct {
	// endpoint is the absolute URL requests are posted to.
	endpoint string
	// http performs the requests.
	http *http.Client

	// callTimeout is the default timeout for individual requests.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for requests.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// ErrUnexpectedStatus is returned for responses outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// New returns a client posting to endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errAddressRequired
	}

	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}

	client := &Client{
		endpoint:    endpoint,
		http:        http.DefaultClient,
		callTimeout: DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SubmitSettings posts a settings submission and returns the confirmation page.
func (c *Client) SubmitSettings(ctx context.Context, s Settings) (string, error) {
	form := url.Values{
		intake.FieldRingTime: {s.RingTime},
		intake.FieldRingtone: {s.Ringtone},
		intake.FieldSnooze:   {s.Snooze},
	}

	body, err := c.post(ctx, form)
	if err != nil {
		return "", fmt.Errorf("submit settings: %w", err)
	}

	return body, nil
}

// Stop posts the stop command token.
func (c *Client) Stop(ctx context.Context, command string) (string, error) {
	body, err := c.post(ctx, url.Values{stop.FieldAction: {command}})
	if err != nil {
		return "", fmt.Errorf("send stop: %w", err)
	}

	return body, nil
}

func (c *Client) post(ctx context.Context, form url.Values) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close() //nolint:errcheck // Body is fully read below.

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(body) > maxBodyBytes {
			body = body[:maxBodyBytes]
		}

		return "", fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(body)))
	}

	return string(body), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// EndpointURL builds the URL of a controller service from its listen address
// and path. A listen address without a host (":8080") targets host instead.
func EndpointURL(host, listenAddress, path string) (string, error) {
	addrHost, port, err := net.SplitHostPort(listenAddress)
	if err != nil {
		return "", fmt.Errorf("invalid address format %q: %w", listenAddress, err)
	}

	if host == "" {
		host = addrHost
	}

	if host == "" {
		host = "127.0.0.1"
	}

	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}

	return u.String(), nil
}
