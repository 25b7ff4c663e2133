// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package verify

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds how often and how patiently an operation is retried.
type RetryPolicy struct {
	MaxAttempts int           // Must be > 0
	BaseDelay   time.Duration // Doubles after each failed attempt
}

// delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	return p.BaseDelay << (attempt - 1)
}

// Retry runs operation until it succeeds, the policy is exhausted, or ctx
// is done. Returns the error from the last attempt if all attempts fail.
func Retry(ctx context.Context, policy RetryPolicy, operation func() error) error {
	if policy.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = operation(); lastErr == nil {
			if attempt > 1 {
				slog.Debug("probe succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		slog.Debug("probe failed", "attempt", attempt, "maxAttempts", policy.MaxAttempts, "err", lastErr)

		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(policy.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
