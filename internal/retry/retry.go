package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retried operation: a total attempt count, a constant
// wait between attempts, and an optional classifier deciding which errors
// are worth retrying at all.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	// Classify reports whether an error is transient. A nil Classify
	// treats every error as transient.
	Classify func(error) bool
}

// Do runs op under the policy, returning nil on the first success, the
// last error once attempts are exhausted, or immediately on an error the
// policy classifies as permanent.
func Do(ctx context.Context, p Policy, op func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(attempts-1)),
		ctx,
	)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if p.Classify != nil && !p.Classify(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}
