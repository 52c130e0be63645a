//nolint:revive // util is a common package name for shared utilities
package util

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"vscodeops/internal/domain"
)

// RetryConfig holds configuration for retry operations
type RetryConfig struct {
	MaxRetries int
	RetryDelay float64
}

// WithRetry wraps an operation with a backoff-based retry loop. The core
// pipeline never retries internally; callers that want retries wrap the whole
// operation here.
func WithRetry(ctx context.Context, cfg RetryConfig, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(cfg.RetryDelay) * time.Second
	b.MaxInterval = time.Duration(cfg.RetryDelay*10) * time.Second
	b.Reset()

	attempt := 0
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}

		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
			return backoff.Permanent(err)
		}

		attempt++
		if attempt > cfg.MaxRetries {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(b, ctx))
}
