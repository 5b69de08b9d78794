package httpclient

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/barbearia/apiclient/notify"
	"github.com/barbearia/apiclient/retry"
)

// retryRateLimited drives the 429 retry loop for one logical call. firstErr
// is the 429 of the initial send. Each iteration emits a notification,
// waits, and resends through the pipeline; the loop ends on success, on any
// non-429 outcome, on context cancellation, or when the policy's retry
// ceiling is reached.
func (c *client) retryRateLimited(ctx context.Context, rc requestContext, firstErr error) (*Response, error) {
	policy := c.config.RetryPolicy
	lastErr := firstErr

	for {
		if !policy.CanRetry(rc.attempt) {
			return nil, c.giveUp(ctx, rc, lastErr)
		}

		rc = rc.nextAttempt()
		wait, fromServer := c.retryDelay(rc.attempt, lastErr)
		message := retry.Message(rc.attempt, wait)

		c.notifier.Emit(notify.Notification{RetryAfter: wait, Message: message})
		c.metrics.recordRetry(ctx, rc.method, rc.attempt)
		c.logger.Warn().
			Str("method", rc.method).
			Str("request_id", rc.requestID).
			Int("retry", rc.attempt).
			Int("max_retries", policy.MaxAttempts).
			Dur("retry_after", wait).
			Str("retry_after_source", delaySource(fromServer)).
			Msg("Rate limited, retrying after backoff")

		if err := c.sleep(ctx, wait); err != nil {
			c.logger.Warn().
				Err(err).
				Str("request_id", rc.requestID).
				Int("retry", rc.attempt).
				Msg("Rate-limit retry aborted")
			return nil, c.contextError(err)
		}

		resp, err := c.send(ctx, rc)
		if err == nil {
			return resp, nil
		}
		if !IsHTTPStatusError(err, nethttp.StatusTooManyRequests) {
			return nil, err
		}
		lastErr = err
	}
}

// retryDelay returns the wait before retry number retryNumber (1-based). A
// server Retry-After hint is used verbatim, even above the policy's cap.
func (c *client) retryDelay(retryNumber int, lastErr error) (time.Duration, bool) {
	var hinted interface {
		RetryAfter() (time.Duration, bool)
	}
	if errors.As(lastErr, &hinted) {
		if d, ok := hinted.RetryAfter(); ok {
			return d, true
		}
	}
	return c.config.RetryPolicy.Backoff(retryNumber - 1), false
}

func (c *client) giveUp(ctx context.Context, rc requestContext, lastErr error) error {
	c.notifier.Emit(notify.Notification{
		RetryAfter: retry.ExhaustedRetryAfter,
		Message:    retry.ExhaustedMessage,
	})
	c.metrics.recordExhausted(ctx, rc.method)
	c.logger.Error().
		Str("method", rc.method).
		Str("request_id", rc.requestID).
		Int("attempts", rc.sendNumber()).
		Msg("Rate limit persisted through every attempt")
	return NewRateLimitedError(rc.sendNumber(), lastErr)
}

func delaySource(fromServer bool) string {
	if fromServer {
		return "retry-after"
	}
	return "backoff"
}
