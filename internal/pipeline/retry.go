package pipeline

import (
	"errors"
	"math/rand"
	"time"

	"github.com/jmlago/tasksmith/internal/generate"
	"github.com/jmlago/tasksmith/internal/jira"
)

// IsRetryable checks if an error is worth retrying. Transient model
// failures and transient tracker failures both qualify.
func IsRetryable(err error) bool {
	var genErr *generate.RetryableError
	if errors.As(err, &genErr) {
		return true
	}
	var trackerErr *jira.TransientError
	return errors.As(err, &trackerErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3
