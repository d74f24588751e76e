package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Config bounds an operation. Timeout, when positive, is the deadline for
// the attempt.
type Config struct {
	Timeout time.Duration
}

// Single returns a Config for exactly one attempt bounded by timeout.
func Single(timeout time.Duration) Config {
	return Config{Timeout: timeout}
}

// Do runs operation once under config. It does not start when ctx is
// already done.
func Do[T any](ctx context.Context, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	opCtx := ctx
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	result, err := operation(opCtx)
	if err != nil {
		log.Debug().
			Err(err).
			Dur("timeout", config.Timeout).
			Msg("Operation failed")
		return zero, err
	}
	return result, nil
}
