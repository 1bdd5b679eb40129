// Package httpclient provides the outbound HTTP client the storefront uses
// to reach the hosted search API: pooled connections, bounded retries with
// exponential backoff, and an optional circuit breaker wrapper.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Config tunes the retrying client.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
}

// DefaultConfig returns the settings used when the caller has no opinion.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    time.Second,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	}
}

// Client is an http.Client with retries on transient failures.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// New builds a Client with its own pooled transport.
func New(cfg Config) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}
}

// Do executes req, retrying network errors and 5xx responses up to
// MaxRetries times. Retried response bodies are closed; the returned
// response's body is the caller's to close.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if retryable(err) && attempt < c.cfg.MaxRetries {
				continue
			}
			return nil, fmt.Errorf("http request failed after %d attempts: %w", attempt+1, err)
		}

		// 501 is permanent, every other 5xx is worth another try.
		if resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented && attempt < c.cfg.MaxRetries {
			_ = resp.Body.Close()
			continue
		}
		return resp, nil
	}

	return resp, err
}

// backoff doubles the minimum wait per attempt, capped at RetryWaitMax.
func (c *Client) backoff(attempt int) time.Duration {
	wait := c.cfg.RetryWaitMin * time.Duration(1<<uint(attempt-1))
	if wait > c.cfg.RetryWaitMax {
		wait = c.cfg.RetryWaitMax
	}
	return wait
}

// retryable reports whether the transport error is worth another attempt.
// Context cancellation is final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
