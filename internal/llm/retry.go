package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryConfig bounds retries of transient failures
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig tries three times starting at 500ms
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
	}
}

type retryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry retries rate limits and unavailable providers with exponential
// backoff. Invalid output and context errors are returned immediately.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryProvider{inner: p, cfg: cfg}
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(err) || attempt == r.cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.wait(attempt)):
		}
	}
	return nil, lastErr
}

func (r *retryProvider) ModelID() string {
	return r.inner.ModelID()
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var un *ErrProviderUnavailable
	return errors.As(err, &un)
}

func (r *retryProvider) wait(attempt int) time.Duration {
	d := r.cfg.InitialWait << attempt
	if r.cfg.MaxWait > 0 && d > r.cfg.MaxWait {
		d = r.cfg.MaxWait
	}
	if d <= 0 {
		return 0
	}
	// up to 20% jitter
	return d + time.Duration(rand.Int64N(int64(d)/5+1))
}
