package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"
	"viewer/internal/config"
	"viewer/internal/constants"
	"viewer/internal/domain"
	"viewer/internal/metrics"

	"github.com/valyala/fasthttp"
)

const (
	SourceProfile   = "profile"
	SourceStandings = "standings"
)

// FailedAttempt describes one unsuccessful request inside a fetch sequence.
type FailedAttempt struct {
	Source   string
	URL      string
	Attempt  int
	Kind     domain.ErrorKind
	Message  string
	Status   int
	Duration time.Duration
}

// AttemptObserver receives a diagnostic event for every failed attempt.
// It must not block for long; it never influences retry decisions.
type AttemptObserver interface {
	ObserveFailure(ctx context.Context, attempt FailedAttempt)
}

type nopObserver struct{}

func (nopObserver) ObserveFailure(context.Context, FailedAttempt) {}

type Client struct {
	client   *fasthttp.Client
	observer AttemptObserver
	sleep    func(ctx context.Context, d time.Duration) error

	serverErrMin int
	serverErrMax int

	profileURL    string
	profilePolicy RetryPolicy

	standingsSource  string
	standingsTimeout time.Duration
}

func NewClient(cfg *config.Config, observer AttemptObserver) *Client {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.HTTPMaxConnsPerHost,
			MaxIdleConnDuration: constants.HTTPMaxIdleConnDuration,
			MaxResponseBodySize: constants.HTTPMaxResponseBodySize,
		},
		observer:     observer,
		sleep:        sleepContext,
		serverErrMin: cfg.ServerErrorMin,
		serverErrMax: cfg.ServerErrorMax,
		profileURL:   cfg.ProfileAPIURL,
		profilePolicy: RetryPolicy{
			MaxAttempts:       cfg.ProfileMaxAttempts,
			PerAttemptTimeout: cfg.ProfileAttemptTimeout,
			BackoffBase:       cfg.ProfileBackoffBase,
			RetryClientErrors: cfg.ProfileRetryNotFound,
		},
		standingsSource:  cfg.StandingsSource,
		standingsTimeout: cfg.StandingsTimeout,
	}
}

func (c *Client) ProfilePolicy() RetryPolicy {
	return c.profilePolicy
}

// statusClassifier maps a non-2xx status to a failure kind and message.
type statusClassifier func(status int) (domain.ErrorKind, string)

// doAttempt performs a single GET bounded by timeout. Only a 2xx response
// carrying valid JSON counts as success.
func (c *Client) doAttempt(ctx context.Context, source, url string, timeout time.Duration, attempt int, classify statusClassifier) (json.RawMessage, *domain.FetchError) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	deadline, _ := attemptCtx.Deadline()
	err := c.client.DoDeadline(req, resp, deadline)
	metrics.FetchLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		if isTimeout(err) {
			return nil, &domain.FetchError{
				Kind:    domain.Timeout,
				Attempt: attempt,
				Message: "request timed out after " + timeout.String(),
				Err:     err,
			}
		}
		return nil, &domain.FetchError{
			Kind:    domain.NetworkError,
			Attempt: attempt,
			Message: "network error: " + err.Error(),
			Err:     err,
		}
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		kind, msg := classify(status)
		return nil, &domain.FetchError{Kind: kind, Attempt: attempt, Status: status, Message: msg}
	}

	body := append([]byte(nil), resp.Body()...)
	if !json.Valid(body) {
		return nil, &domain.FetchError{
			Kind:    domain.NetworkError,
			Attempt: attempt,
			Status:  status,
			Message: "invalid JSON in response body",
		}
	}
	return body, nil
}

func (c *Client) observe(ctx context.Context, source, url string, fe *domain.FetchError, elapsed time.Duration) {
	metrics.FetchAttempts.WithLabelValues(source, fe.Kind.String()).Inc()
	c.observer.ObserveFailure(ctx, FailedAttempt{
		Source:   source,
		URL:      url,
		Attempt:  fe.Attempt,
		Kind:     fe.Kind,
		Message:  fe.Message,
		Status:   fe.Status,
		Duration: elapsed,
	})
}

func isTimeout(err error) bool {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
