package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"viewer/internal/domain"
	"viewer/internal/metrics"

	"github.com/valyala/fasthttp"
)

// RetryPolicy bounds a fetch sequence. The wait after failed attempt n
// (when another attempt follows) is BackoffBase*n.
type RetryPolicy struct {
	MaxAttempts       int
	PerAttemptTimeout time.Duration
	BackoffBase       time.Duration

	// RetryClientErrors keeps retrying after a 404. When false a 404 ends
	// the sequence immediately.
	RetryClientErrors bool
}

func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.PerAttemptTimeout <= 0 {
		return fmt.Errorf("per-attempt timeout must be positive, got %s", p.PerAttemptTimeout)
	}
	if p.BackoffBase < 0 {
		return fmt.Errorf("backoff base must not be negative, got %s", p.BackoffBase)
	}
	return nil
}

// Backoff is the delay inserted after failed attempt n.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.BackoffBase * time.Duration(attempt)
}

// FetchWithRetry GETs url up to policy.MaxAttempts times and returns the
// first successful JSON payload. On exhaustion it returns the last
// *domain.FetchError.
func (c *Client) FetchWithRetry(ctx context.Context, source, url string, policy RetryPolicy) (json.RawMessage, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry policy: %w", err)
	}

	var lastErr *domain.FetchError
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err, attempt-1, lastErr)
		}

		start := time.Now()
		body, fe := c.doAttempt(ctx, source, url, policy.PerAttemptTimeout, attempt, c.classifyStatus)
		if fe == nil {
			metrics.FetchAttempts.WithLabelValues(source, "success").Inc()
			return body, nil
		}

		lastErr = fe
		c.observe(ctx, source, url, fe, time.Since(start))

		if fe.Kind == domain.ClientError && !policy.RetryClientErrors {
			break
		}
		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.Backoff(attempt)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, cancelled(err, attempt, lastErr)
		}
		metrics.BackoffSeconds.WithLabelValues(source).Add(delay.Seconds())
	}

	return nil, lastErr
}

// FetchOnce performs a single attempt with the standings classification.
func (c *Client) FetchOnce(ctx context.Context, source, url string, timeout time.Duration) (json.RawMessage, error) {
	start := time.Now()
	body, fe := c.doAttempt(ctx, source, url, timeout, 1, classifyResourceStatus)
	if fe != nil {
		c.observe(ctx, source, url, fe, time.Since(start))
		return nil, fe
	}
	metrics.FetchAttempts.WithLabelValues(source, "success").Inc()
	return body, nil
}

func (c *Client) classifyStatus(status int) (domain.ErrorKind, string) {
	switch {
	case status == fasthttp.StatusNotFound:
		return domain.ClientError, "Client error: 404 Not Found"
	case status >= c.serverErrMin && status <= c.serverErrMax:
		return domain.ServerError, fmt.Sprintf("Server error: %d %s", status, fasthttp.StatusMessage(status))
	default:
		return domain.NetworkError, fmt.Sprintf("HTTP error: %d %s", status, fasthttp.StatusMessage(status))
	}
}

func classifyResourceStatus(status int) (domain.ErrorKind, string) {
	switch status {
	case fasthttp.StatusNotFound:
		return domain.ResourceNotFound, "Resource not found: 404 Not Found"
	case fasthttp.StatusServiceUnavailable:
		return domain.ServiceUnavailable, "Service unavailable: 503 Service Unavailable"
	default:
		return domain.NetworkError, fmt.Sprintf("HTTP error: %d %s", status, fasthttp.StatusMessage(status))
	}
}

// cancelled converts a caller-side cancellation into a FetchError that
// still carries the last attempt failure, if any.
func cancelled(err error, attempt int, last *domain.FetchError) *domain.FetchError {
	kind := domain.NetworkError
	if errors.Is(err, context.DeadlineExceeded) {
		kind = domain.Timeout
	}
	msg := "request cancelled: " + err.Error()
	if last != nil {
		msg = last.Message + " (" + msg + ")"
	}
	return &domain.FetchError{Kind: kind, Attempt: attempt, Message: msg, Err: err}
}
