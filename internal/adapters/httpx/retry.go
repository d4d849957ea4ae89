// Package httpx provides the retrying HTTP client shared by the generation
// provider adapters.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 500 * time.Millisecond
)

// Client wraps an http.Client with retry on transient failures: network
// errors, 429, and 5xx. Backoff is exponential and honors Retry-After.
type Client struct {
	HTTP        *http.Client
	MaxRetries  int
	BaseBackoff time.Duration
	Log         *logrus.Logger
}

// NewClient builds a retrying client with the given request timeout.
func NewClient(timeout time.Duration, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		HTTP:        &http.Client{Timeout: timeout},
		MaxRetries:  defaultMaxRetries,
		BaseBackoff: defaultBackoff,
		Log:         log,
	}
}

// Do executes the request, retrying transient failures. The request body is
// buffered so it can be replayed across attempts.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	baseBackoff := c.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = defaultBackoff
	}

	if req.Body != nil && req.GetBody == nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("httpx: read request body: %w", err)
		}
		_ = req.Body.Close()
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bodyBytes)), nil
		}
	}

	ctx := req.Context()
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("httpx: request canceled: %w", err)
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("httpx: reset request body: %w", err)
			}
			req.Body = body
		}

		resp, err := c.HTTP.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		attemptNum := attempt + 1
		if err != nil {
			c.Log.Warnf("httpx: retry attempt %d/%d after error: %v", attemptNum, maxRetries, err)
		} else if resp != nil {
			c.Log.Warnf("httpx: retry attempt %d/%d after status %d", attemptNum, maxRetries, resp.StatusCode)
			_ = resp.Body.Close()
		}

		if attempt == maxRetries-1 {
			if err != nil {
				return nil, fmt.Errorf("httpx: request failed after %d attempts: %w", maxRetries, err)
			}
			if resp != nil {
				return nil, fmt.Errorf("httpx: request failed after %d attempts: status %d", maxRetries, resp.StatusCode)
			}
			return nil, fmt.Errorf("httpx: request failed after %d attempts", maxRetries)
		}

		backoff := baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("httpx: request failed after %d attempts", maxRetries)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}
	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("httpx: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
