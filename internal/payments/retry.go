package payments

import "time"

const (
	retryBaseDelay = 1000 * time.Millisecond
	retryMaxDelay  = 30000 * time.Millisecond
)

// RetryDelay returns the backoff before the given retry attempt, starting
// at 1s and doubling per attempt, capped at 30s. This throttles the retry
// UI; it is not a server-enforced limit.
func RetryDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return retryBaseDelay
	}
	delay := retryBaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	return delay
}
