// Package fetch downloads remote documents for the extractor.
//
// Requests go through resty on top of a retryablehttp transport, so
// connection errors and 5xx responses are retried with backoff, and an
// optional token-bucket limiter spaces requests out.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"time"

	"github.com/GriffinCanCode/markscan/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrTooLarge is returned when a response body exceeds MaxBytes.
var ErrTooLarge = errors.New("response body too large")

// Config configures a Client.
type Config struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string
	MaxBytes     int64
	// RequestsPerSecond limits outgoing requests; zero means unlimited.
	RequestsPerSecond float64
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		Retries:      3,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		UserAgent:    "markscan/1.0",
		MaxBytes:     10 << 20,
	}
}

// Document is a fetched response body with the metadata needed to decode it.
type Document struct {
	URL         string
	StatusCode  int
	ContentType string
	// Charset is the charset parameter of Content-Type, "" when absent.
	Charset string
	Body    []byte
}

// Client fetches documents over HTTP.
type Client struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	maxBytes int64
	logger   *logging.Logger
}

// NewClient creates a client from cfg.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = def.RetryWaitMin
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = def.RetryWaitMax
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil
	// Hand the last response back instead of an error so the caller sees
	// the status code.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html, application/xhtml+xml, application/xml;q=0.9, */*;q=0.8")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		resty:    restyClient,
		limiter:  limiter,
		maxBytes: cfg.MaxBytes,
		logger:   logger.Named("fetch"),
	}
}

// Fetch downloads rawURL. Non-2xx responses are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: only absolute http(s) urls are supported", rawURL)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	resp, err := c.resty.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status())
	}

	data, err := io.ReadAll(io.LimitReader(body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("fetch %s: %w (limit %d bytes)", rawURL, ErrTooLarge, c.maxBytes)
	}

	contentType := resp.Header().Get("Content-Type")
	doc := &Document{
		URL:         rawURL,
		StatusCode:  resp.StatusCode(),
		ContentType: contentType,
		Charset:     contentCharset(contentType),
		Body:        data,
	}

	c.logger.Debug("Fetched document",
		zap.String("url", rawURL),
		zap.Int("status", doc.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
	)
	return doc, nil
}

func contentCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
