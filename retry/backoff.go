// Package retry holds the rate-limit retry policy shared by every request and
// the pure helpers the client uses to size and describe each wait.
package retry

import (
	"math"
	"time"
)

// ComputeBackoff returns min(base * 2^attempt, limit). Negative attempts are
// treated as zero and the result saturates at limit instead of overflowing.
// No jitter is applied.
func ComputeBackoff(attempt int, base, limit time.Duration) time.Duration {
	return scaledBackoff(attempt, base, limit, 2)
}

func scaledBackoff(attempt int, base, limit time.Duration, multiplier float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if base <= 0 {
		return 0
	}
	if multiplier < 1 {
		multiplier = 1
	}

	d := float64(base) * math.Pow(multiplier, float64(attempt))
	if limit > 0 && d >= float64(limit) {
		return limit
	}
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}
