// Package daemon talks to the local policy daemon over loopback HTTP.
package daemon

//go:generate mockgen -source=client.go -destination=client_mock.go -package=daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/internal/paths"
	"github.com/metaygn/aletheia-hooks/pkg/config"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
	"github.com/metaygn/aletheia-hooks/pkg/logger"
)

var (
	// ErrNoEndpoint is returned when the port file is missing or unusable.
	ErrNoEndpoint = errors.New("daemon endpoint not available")

	// ErrUnreachable is returned when the connection fails.
	ErrUnreachable = errors.New("daemon unreachable")

	// ErrTimeout is returned when the deadline elapses before a response.
	ErrTimeout = errors.New("daemon timed out")

	// ErrBadStatus is returned for non-2xx responses.
	ErrBadStatus = errors.New("daemon returned non-success status")

	// ErrMalformed is returned when the response is not a well-formed hook output.
	ErrMalformed = errors.New("daemon returned malformed response")
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Consulter is the daemon surface used by the dispatcher.
type Consulter interface {
	// Consult posts payload to route and returns the daemon's hook output.
	Consult(ctx context.Context, route Route, payload []byte) (*hook.Output, error)

	// Health returns the compacted /health payload.
	Health(ctx context.Context) (json.RawMessage, error)

	// Notify posts payload to route without waiting for a response.
	Notify(route Route, payload []byte)
}

// Client is the HTTP implementation of Consulter.
type Client struct {
	portFile   string
	host       string
	timeout    time.Duration
	grace      time.Duration
	httpClient *http.Client
	log        logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPortFile overrides the port file location.
func WithPortFile(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.portFile = path
		}
	}
}

// WithHost overrides the loopback host.
func WithHost(host string) ClientOption {
	return func(c *Client) {
		if host != "" {
			c.host = host
		}
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithNotifyGrace sets how long Notify waits for the request to be written.
func WithNotifyGrace(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.grace = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a Client with defaults taken from the config package.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		portFile:   paths.PortFile(),
		host:       config.DefaultDaemonHost,
		timeout:    config.DefaultDaemonTimeout,
		grace:      config.DefaultNotifyGrace,
		httpClient: &http.Client{Transport: &http.Transport{DisableKeepAlives: true}},
		log:        logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig creates a Client from the [daemon] section.
func NewClientFromConfig(cfg *config.DaemonConfig, log logger.Logger) *Client {
	return NewClient(
		WithPortFile(paths.ExpandPathSilent(cfg.GetPortFile())),
		WithHost(cfg.GetHost()),
		WithTimeout(cfg.GetTimeout()),
		WithNotifyGrace(cfg.GetNotifyGrace()),
		WithLogger(log),
	)
}

// PortFile returns the port file location.
func (c *Client) PortFile() string {
	return c.portFile
}

// Timeout returns the per-request deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// BaseURL reads the port file and returns http://host:port.
func (c *Client) BaseURL() (string, error) {
	port, err := ReadPort(c.portFile)
	if err != nil {
		return "", err
	}

	return "http://" + net.JoinHostPort(c.host, strconv.Itoa(port)), nil
}

// Consult implements Consulter.
func (c *Client) Consult(ctx context.Context, route Route, payload []byte) (*hook.Output, error) {
	body, err := c.do(ctx, http.MethodPost, route, payload)
	if err != nil {
		return nil, err
	}

	var out hook.Output
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.CombineErrors(ErrMalformed, err)
	}

	if err := out.Validate(); err != nil {
		return nil, errors.CombineErrors(ErrMalformed, err)
	}

	c.log.Debug("daemon answered", "route", route, "decision", out.Decision())

	return &out, nil
}

// Health implements Consulter.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, RouteHealth, nil)
	if err != nil {
		return nil, err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, errors.CombineErrors(ErrMalformed, err)
	}

	return compact.Bytes(), nil
}

// Notify implements Consulter. It returns once the request has been
// written or the grace period has elapsed, whichever comes first. The
// response is never read.
func (c *Client) Notify(route Route, payload []byte) {
	base, err := c.BaseURL()
	if err != nil {
		c.log.Debug("notify skipped", "route", route, "error", err)

		return
	}

	wrote := make(chan struct{})

	var once sync.Once

	trace := &httptrace.ClientTrace{
		WroteRequest: func(httptrace.WroteRequestInfo) {
			once.Do(func() { close(wrote) })
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	ctx = httptrace.WithClientTrace(ctx, trace)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+string(route), bytes.NewReader(payload))
	if err != nil {
		cancel()

		return
	}

	req.Header.Set("Content-Type", "application/json")

	go func() {
		defer cancel()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return
		}

		_ = resp.Body.Close()
	}()

	timer := time.NewTimer(c.grace)
	defer timer.Stop()

	select {
	case <-wrote:
	case <-timer.C:
		c.log.Debug("notify grace elapsed", "route", route)
	}
}

func (c *Client) do(ctx context.Context, method string, route Route, payload []byte) ([]byte, error) {
	base, err := c.BaseURL()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+string(route), reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "building daemon request")
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(ErrBadStatus, "%s %s: %d", method, route, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	c.log.Debug("daemon round trip", "route", route, "status", resp.StatusCode, "elapsed", time.Since(start))

	return body, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return errors.CombineErrors(ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.CombineErrors(ErrTimeout, err)
	}

	return errors.CombineErrors(ErrUnreachable, err)
}
