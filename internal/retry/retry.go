// Package retry runs HTTP calls against rate-limited services with bounded
// exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds the number and spacing of retries.
type Policy struct {
	MaxRetries int
	Initial    time.Duration
	Max        time.Duration
}

// DefaultPolicy is 5 retries starting at 200ms and capped at 5s.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 5, Initial: 200 * time.Millisecond, Max: 5 * time.Second}
}

// StatusError is a retryable HTTP failure.
type StatusError struct {
	Status     string
	Code       int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string { return "unexpected status: " + e.Status }

// Retryable reports whether code should be retried.
func Retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// CheckResponse turns a retryable status into a *StatusError and any other
// non-2xx status into a permanent error. resp.Body is left open.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	if Retryable(resp.StatusCode) {
		return &StatusError{Status: resp.Status, Code: resp.StatusCode, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	return backoff.Permanent(fmt.Errorf("unexpected status: %s", resp.Status))
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error { return backoff.Permanent(err) }

// Do calls op until it succeeds, returns a permanent error, the context ends or
// the policy is exhausted. notify, when set, sees every failed attempt.
func Do(ctx context.Context, p Policy, op func() error, notify func(attempt int, err error, wait time.Duration)) error {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	eb := backoff.NewExponentialBackOff()
	if p.Initial > 0 {
		eb.InitialInterval = p.Initial
	}
	if p.Max > 0 {
		eb.MaxInterval = p.Max
	}
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.MaxRetries)), ctx)

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		var se *StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 && attempt <= p.MaxRetries {
			t := time.NewTimer(se.RetryAfter)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			case <-t.C:
			}
		}
		return err
	}
	return backoff.RetryNotify(wrapped, b, func(err error, wait time.Duration) {
		if notify != nil {
			notify(attempt, err, wait)
		}
	})
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	if secs > 60 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}
