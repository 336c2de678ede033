// Package retry runs an operation with bounded exponential backoff.
// Only errors marked Transient are retried; everything else fails the
// operation on the first attempt.
package retry

import (
	"context"
	"errors"
	"time"
)

// Config bounds the retry loop. Attempts counts the first try.
type Config struct {
	Attempts int
	BaseWait time.Duration
	MaxWait  time.Duration
}

// Default returns the bounds used for remote catalog calls.
func Default() Config {
	return Config{
		Attempts: 3,
		BaseWait: 200 * time.Millisecond,
		MaxWait:  5 * time.Second,
	}
}

type transientError struct {
	err error
}

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err was marked by Transient.
func IsTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// Do runs fn until it succeeds, fails with a non-transient error, or the
// attempt budget is spent. The last error is returned in that final case.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}

	var err error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 {
			wait := cfg.BaseWait << (attempt - 1)
			if cfg.MaxWait > 0 && wait > cfg.MaxWait {
				wait = cfg.MaxWait
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
	}

	return err
}
