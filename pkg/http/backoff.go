package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// BackoffConfig describes an exponential retry policy.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// RetryOn decides whether an attempt should be retried. Defaults to DefaultRetryOn.
	RetryOn func(status int, err error) bool
}

// DefaultRetryOn retries transport failures and 5xx responses.
func DefaultRetryOn(status int, err error) bool {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if err != nil && status == 0 {
		return true
	}
	return status >= http.StatusInternalServerError
}

// interval returns the wait before retry attempt n (1-based).
func (b *BackoffConfig) interval(n int) time.Duration {
	initial := b.InitialInterval
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	wait := float64(initial)
	for i := 1; i < n; i++ {
		wait *= multiplier
	}
	d := time.Duration(wait)
	if b.MaxInterval > 0 && d > b.MaxInterval {
		d = b.MaxInterval
	}
	return d
}

// doRequestWithBackoff runs doRequest, retrying per backoff or, when nil, the client default.
func (hc *Client) doRequestWithBackoff(ctx context.Context, method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if backoff == nil {
		backoff = hc.backoff
	}
	if backoff == nil || backoff.MaxRetries <= 0 {
		return hc.doRequest(ctx, method, path, queryParams, headers, body, successResp, errorResp)
	}

	retryOn := backoff.RetryOn
	if retryOn == nil {
		retryOn = DefaultRetryOn
	}

	for attempt := 0; ; attempt++ {
		start := time.Now()
		success, failure, status, err := hc.doRequest(ctx, method, path, queryParams, headers, body, successResp, errorResp)
		if err == nil || attempt >= backoff.MaxRetries || !retryOn(status, err) {
			return success, failure, status, err
		}

		if hc.logger != nil {
			var responseBody string
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				responseBody = string(statusErr.Body)
			}
			var requestBody string
			if body != nil {
				requestBody = fmt.Sprintf("%v", body)
			}
			hc.logger.LogRequestRetry(method, hc.buildURL(path), headers, requestBody, status, responseBody,
				time.Since(start).Milliseconds(), err, attempt+1, backoff.MaxRetries)
		}

		timer := time.NewTimer(backoff.interval(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, nil, status, ctx.Err()
		case <-timer.C:
		}
	}
}
