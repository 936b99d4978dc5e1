package media

import (
	"math/rand"
	"time"
)

const (
	// MaxAttempts bounds both top-level and per-fragment retries.
	MaxAttempts = 3

	backoffCap = 10 * time.Second
)

// Backoff returns the delay before retry attempt n: min(2^n, 10) seconds.
func Backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > backoffCap {
		return backoffCap
	}
	return d
}

// interRequestDelay returns a jittered sleep between 1 and 10 seconds,
// used between requests to avoid host-side throttling.
func interRequestDelay() time.Duration {
	return time.Second + time.Duration(rand.Int63n(int64(9*time.Second)))
}
