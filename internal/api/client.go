package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"

	"github.com/diogo/sierrachat/internal/config"
	apierrors "github.com/diogo/sierrachat/internal/errors"
	"github.com/diogo/sierrachat/internal/models"
)

// Client talks to the chat backend. It performs exactly one request per
// call: no retries, no caching.
type Client struct {
	httpClient   tls_client.HttpClient
	baseURL      string
	chatPath     string
	healthPath   string
	transport    models.Transport
	timeout      time.Duration
	topK         int
	logger       *slog.Logger
	newRequestID func() string
	mu           sync.RWMutex
	closed       bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend base URL (scheme and host, optional path prefix)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTransport selects header or body transport for chat messages
func WithTransport(transport models.Transport) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithChatPath overrides the chat endpoint path
func WithChatPath(path string) ClientOption {
	return func(c *Client) {
		c.chatPath = path
	}
}

// WithHealthPath overrides the health endpoint path
func WithHealthPath(path string) ClientOption {
	return func(c *Client) {
		c.healthPath = path
	}
}

// WithTimeout bounds each request. Zero disables the client-side timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTopK forwards top_k in body transport
func WithTopK(topK int) ClientOption {
	return func(c *Client) {
		c.topK = topK
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient injects the underlying HTTP client (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestIDFunc overrides request ID generation
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.newRequestID = fn
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:      models.DefaultBaseURL,
		chatPath:     models.EndpointChat,
		healthPath:   models.EndpointHealth,
		transport:    models.TransportHeader,
		timeout:      120 * time.Second,
		logger:       config.DiscardLogger(),
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := validateBaseURL(client.baseURL); err != nil {
		return nil, err
	}
	client.baseURL = strings.TrimRight(client.baseURL, "/")

	if _, ok := models.ParseTransport(string(client.transport)); !ok {
		return nil, fmt.Errorf("invalid transport %q", client.transport)
	}

	if client.httpClient == nil {
		// The context deadline enforces the timeout; the transport timeout is
		// only a backstop, disabled when the caller disables timeouts.
		backstop := 0
		if client.timeout > 0 {
			backstop = int(client.timeout/time.Second) + 5
		}
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(backstop),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// NewClientFromConfig creates a Client from user configuration
func NewClientFromConfig(cfg config.Config, logger *slog.Logger, opts ...ClientOption) (*Client, error) {
	base := []ClientOption{
		WithBaseURL(cfg.BaseURL),
		WithTransport(cfg.TransportMode()),
		WithChatPath(cfg.ChatPath),
		WithHealthPath(cfg.HealthPath),
		WithTimeout(cfg.Timeout()),
		WithTopK(cfg.TopK),
	}
	if logger != nil {
		base = append(base, WithLogger(logger))
	}
	return NewClient(append(base, opts...)...)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return nil
}

// Close shuts down the client
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Transport returns the chat transport in use
func (c *Client) Transport() models.Transport {
	return c.transport
}

// endpointURL joins the base URL and an endpoint path
func (c *Client) endpointURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// withTimeout derives the per-request context
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// transportError maps a failed Do call to a typed error
func (c *Client) transportError(ctx context.Context, operation, endpoint string, err error) error {
	if ctxErr := apierrors.FromContext(ctx.Err()); ctxErr != nil {
		return ctxErr
	}
	if ctxErr := apierrors.FromContext(err); ctxErr != nil {
		return ctxErr
	}
	return apierrors.NewNetworkError(operation, endpoint, err)
}

// readBody reads at most maxResponseBytes of a response body
func readBody(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, maxResponseBytes))
}

// truncate shortens s to n bytes for logs and error bodies
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
