package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/resmon/internal/models"
	"github.com/ppiankov/resmon/pkg/config"
)

// UsagePath is the monitor endpoint serving historical resource usage.
const UsagePath = "/api/v2/monitor/system/resource/usage"

const redacted = "REDACTED"

// maxBodyBytes caps the response body read for one resource.
const maxBodyBytes = 32 << 20

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %s", e.Status)
}

// Client talks to the resource usage endpoint.
type Client struct {
	baseURL string
	token   string
	scope   models.Scope
	http    *http.Client
	limiter *RateLimiter
	retry   retryConfig
	timeout time.Duration
}

// NewClient builds an API client from the resolved configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		return nil, err
	}
	if tlsCfg.InsecureSkipVerify {
		slog.Warn("TLS certificate verification is disabled",
			slog.String("host", cfg.Host()),
		)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg

	retry := defaultRetryConfig()
	retry.maxAttempts = cfg.Retries + 1

	c := &Client{
		baseURL: cfg.APIBaseURL(),
		token:   cfg.AccessToken,
		scope:   cfg.Scope,
		http:    &http.Client{Transport: transport},
		retry:   retry,
		timeout: cfg.Timeout,
	}
	if cfg.RateLimit > 0 {
		c.limiter = NewRateLimiter(cfg.RateLimit)
	}
	return c, nil
}

// Fetch requests the usage payload for one resource.
func (c *Client) Fetch(ctx context.Context, key models.ResourceKey) (*models.UsagePayload, error) {
	ctx, cancel := withTotalTimeoutContext(ctx, c.timeout)
	defer cancel()

	var payload *models.UsagePayload
	err := executeWithRetry(ctx, c.retry, func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		p, err := c.fetchOnce(ctx, key)
		if err != nil {
			slog.Debug("fetch attempt failed",
				slog.String("resource", string(key)),
				slog.String("error", err.Error()),
			)
			return err
		}
		payload = p
		return nil
	})
	if err != nil {
		return nil, c.redactError(err)
	}
	return payload, nil
}

func (c *Client) fetchOnce(ctx context.Context, key models.ResourceKey) (*models.UsagePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("requesting resource usage",
		slog.String("resource", string(key)),
		slog.String("url", c.redact(req.URL.String())),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var payload models.UsagePayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return &payload, nil
}

// requestURL builds base + UsagePath with access_token, resource and scope.
func (c *Client) requestURL(key models.ResourceKey) string {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("resource", string(key))
	q.Set("scope", string(c.scope))
	return c.baseURL + UsagePath + "?" + q.Encode()
}

func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.token), redacted)
	return strings.ReplaceAll(s, c.token, redacted)
}

// redactError strips the access token from URLs carried by the error.
func (c *Client) redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = c.redact(urlErr.URL)
	}
	if c.token != "" && strings.Contains(err.Error(), c.token) {
		return errors.New(c.redact(err.Error()))
	}
	return err
}
