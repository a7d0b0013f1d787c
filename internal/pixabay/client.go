package pixabay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/model"
)

const (
	// DefaultEndpoint is the Pixabay image search endpoint
	DefaultEndpoint = "https://pixabay.com/api/"

	// DefaultTimeout bounds a single request
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept
	maxErrorBody = 512
)

// Fixed search filters
const (
	imageTypePhoto        = "photo"
	orientationHorizontal = "horizontal"
)

// Client talks to the Pixabay API. It is stateless apart from its transport
// and limiter, and is safe for concurrent use.
type Client struct {
	endpoint    string
	client      *http.Client
	rateLimiter *RateLimiter
	log         zerolog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the default search endpoint.
func WithEndpoint(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.endpoint = u
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter gates search requests through r. Image fetches go to the
// CDN and are not counted against the API quota.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// NewClient creates a new Pixabay client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		client:   NewHTTPClient(DefaultTimeout),
		log:      logging.New("pixabay"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient returns an HTTP client with bounded dial, TLS and header
// timeouts.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 15 * time.Second
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 5 * time.Minute

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

type hit struct {
	ID           int    `json:"id"`
	WebformatURL string `json:"webformatURL"`
	PreviewURL   string `json:"previewURL"`
	Tags         string `json:"tags"`
}

type searchResponse struct {
	Total     int    `json:"total"`
	TotalHits int    `json:"totalHits"`
	Hits      *[]hit `json:"hits"`
}

// Search fetches one page of results for q. An empty apiKey is sent as-is;
// the server rejects it. A response without "hits" is an empty result.
func (c *Client) Search(ctx context.Context, apiKey string, q model.SearchQuery) ([]model.ImageItem, error) {
	u, err := c.buildSearchURL(apiKey, q)
	if err != nil {
		return nil, fmt.Errorf("%w: building search URL: %w", model.ErrNetworkFailure, err)
	}

	c.log.Info().
		Str("keyword", q.Keyword).
		Int("page", q.Page).
		Int("per_page", q.PageSize).
		Msg("searching images")

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrNetworkFailure, err)
		}
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing search response: %w", model.ErrNetworkFailure, err)
	}

	if resp.Hits == nil {
		c.log.Info().Str("keyword", q.Keyword).Msg("no images found")
		return []model.ImageItem{}, nil
	}

	items := make([]model.ImageItem, 0, len(*resp.Hits))
	for _, h := range *resp.Hits {
		if h.WebformatURL == "" {
			c.log.Warn().Int("id", h.ID).Msg("hit without webformatURL skipped")
			continue
		}
		c.log.Debug().Str("url", h.WebformatURL).Msg("found image URL")
		items = append(items, model.ImageItem{URL: h.WebformatURL})
	}

	c.log.Info().
		Str("keyword", q.Keyword).
		Int("page", q.Page).
		Int("count", len(items)).
		Int("total_hits", resp.TotalHits).
		Msg("search completed")

	return items, nil
}

// FetchImage downloads the raw bytes behind an image URL.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	c.log.Debug().Str("url", imageURL).Msg("fetching image")
	return c.get(ctx, imageURL)
}

func (c *Client) buildSearchURL(apiKey string, q model.SearchQuery) (string, error) {
	base, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}

	params := base.Query()
	params.Set("key", apiKey)
	params.Set("q", q.Keyword)
	params.Set("per_page", strconv.Itoa(q.PageSize))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("image_type", imageTypePhoto)
	params.Set("orientation", orientationHorizontal)
	base.RawQuery = params.Encode()

	return base.String(), nil
}

// get performs a GET and maps every failure to model.ErrNetworkFailure
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating HTTP request: %w", model.ErrNetworkFailure, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error().Err(redact(err)).Msg("request failed")
		return nil, fmt.Errorf("%w: executing request: %w", model.ErrNetworkFailure, redact(err))
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", model.ErrNetworkFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		c.log.Error().Int("status", resp.StatusCode).Msg("request rejected")
		return nil, fmt.Errorf("%w: %w", model.ErrNetworkFailure, statusErr)
	}

	return body, nil
}

// redact strips the request URL (which carries the API key) from transport errors
func redact(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
