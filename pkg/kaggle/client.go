package kaggle

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// DefaultBaseURL is the Kaggle public API root.
const DefaultBaseURL = "https://www.kaggle.com/api/v1"

const defaultTimeout = 5 * time.Minute

// Client talks to the Kaggle datasets API.
type Client struct {
	api         *resty.Client
	upload      *resty.Client
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	credentials optional.Option[Credentials]
	progress    io.Writer
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithCredentials skips the credential lookup.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.credentials = optional.Some(creds)
	}
}

// WithProgressWriter sets where the download progress bar is drawn.
func WithProgressWriter(w io.Writer) Option {
	return func(c *Client) {
		c.progress = w
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Kaggle client. Without WithCredentials, credentials come from LoadCredentials.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{},
		timeout:     defaultTimeout,
		credentials: optional.None[Credentials](),
		progress:    os.Stderr,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.credentials.IsNone() {
		creds, err := LoadCredentials()
		if err != nil {
			return nil, err
		}

		c.credentials = optional.Some(creds)
	}

	creds := c.credentials.Unwrap()

	c.api = resty.NewWithClient(c.httpClient).
		SetBaseURL(c.baseURL).
		SetBasicAuth(creds.Username, creds.Key).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json")

	// Blob uploads go to pre-signed URLs that must not carry the API credentials.
	c.upload = resty.NewWithClient(c.httpClient).SetTimeout(c.timeout)

	return c, nil
}
