package retry

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultMaxAttempts       = 3
	DefaultBaseDelay         = time.Second
	DefaultMaxDelay          = 10 * time.Second
	DefaultBackoffMultiplier = 2.0

	// ExhaustedRetryAfter is the wait hint sent with the final notification
	// once the retry ceiling is reached.
	ExhaustedRetryAfter = 30 * time.Second
)

// Policy configures rate-limit retries. MaxAttempts bounds the number of
// retries after the initial send; zero disables retrying.
type Policy struct {
	MaxAttempts       int           `validate:"gte=0"`
	BaseDelay         time.Duration `validate:"gte=0"`
	MaxDelay          time.Duration `validate:"gtefield=BaseDelay"`
	BackoffMultiplier float64       `validate:"gte=1"`
}

// DefaultPolicy returns 3 retries, 1s base delay, 10s cap, multiplier 2.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       DefaultMaxAttempts,
		BaseDelay:         DefaultBaseDelay,
		MaxDelay:          DefaultMaxDelay,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

var policyValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first invalid field.
func (p Policy) Validate() error {
	if err := policyValidator.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("retry policy: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("retry policy: %w", err)
	}
	return nil
}

// Backoff returns the computed wait before retry number attempt+1, using the
// policy's multiplier and cap.
func (p Policy) Backoff(attempt int) time.Duration {
	return scaledBackoff(attempt, p.BaseDelay, p.MaxDelay, p.BackoffMultiplier)
}

// CanRetry reports whether another retry is allowed after retries retries.
func (p Policy) CanRetry(retries int) bool {
	return retries < p.MaxAttempts
}
