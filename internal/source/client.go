package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/teckmodel/aptai/internal/config"
	"github.com/teckmodel/aptai/internal/logger"
)

const userAgent = "aptai/1.0"

// Client is a typed wrapper around one external HTTP endpoint. It builds
// requests, applies the source's timeout on top of the caller's context,
// and maps transport and HTTP failures into the package error taxonomy.
// A Client is safe for concurrent use.
type Client struct {
	name       string
	baseURL    string
	timeout    time.Duration
	bearer     string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithBearer attaches a bearer token to every request.
func WithBearer(token string) Option {
	return func(c *Client) {
		c.bearer = token
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New builds a client for one configured source.
func New(cfg config.SourceConfig, opts ...Option) *Client {
	c := &Client{
		name:       cfg.Name,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		log:        logger.GetForComponent("source_" + cfg.Name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the source's registration name.
func (c *Client) Name() string {
	return c.name
}

// GetJSON issues a GET to path and decodes the JSON body into out. The
// caller's context is propagated so a parent deadline cancels the request;
// the source timeout applies independently on top of it.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// PostJSON issues a POST with a JSON-encoded body and decodes the response
// into out.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if strings.Contains(path, " ") {
		return errors.Wrap(ErrInvalidInput, "path contains whitespace")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("Request failed")
		return &TransportError{Source: c.name, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("Non-success status")
		return &TransportError{Source: c.name, URL: url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Source: c.name, URL: url, Err: err}
	}
	// An empty 2xx body carries no entity; treat it like a miss.
	if len(bytes.TrimSpace(raw)) == 0 {
		return ErrNotFound
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("Undecodable response body")
		return errors.Wrap(ErrMalformed, err.Error())
	}
	return nil
}
