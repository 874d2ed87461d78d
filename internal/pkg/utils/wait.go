package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/cenkalti/backoff/v4"
)

// WaitFor calls f until it succeeds or the backoff gives up
func WaitFor(ctx context.Context, name string, f func(context.Context) error, b backoff.BackOff) error {
	op := func() error {
		err := f(ctx)
		if err != nil {
			goapp.Log.Warn().Err(err).Str("name", name).Msg("not ready")
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("%s is not ready: %w", name, err)
	}
	goapp.Log.Info().Str("name", name).Msg("ready")
	return nil
}

// StartupBackoff retries for up to the duration
func StartupBackoff(maxWait time.Duration) backoff.BackOff {
	res := backoff.NewExponentialBackOff()
	res.MaxElapsedTime = maxWait
	return res
}
