// Package worker provides a small periodic task loop used for background
// maintenance such as scheduled corpus reindexing.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const logFieldWorker = "worker"

// PeriodicConfig configures a periodic task loop.
type PeriodicConfig struct {
	// Name identifies the worker for logging.
	Name string

	// Interval is the ticker interval, must be positive.
	Interval time.Duration

	// OnTick is called when the ticker fires.
	OnTick func(ctx context.Context)

	// RunOnStart runs OnTick immediately when starting.
	RunOnStart bool

	// Logger for the worker. Nil disables logging.
	Logger *zerolog.Logger
}

// RunPeriodic runs the task loop until the context is canceled and
// returns the wrapped context error.
func RunPeriodic(ctx context.Context, cfg PeriodicConfig) error {
	logger := getLogger(cfg.Logger)
	logger.Info().Str(logFieldWorker, cfg.Name).Dur("interval", cfg.Interval).Msg("starting periodic worker")

	defer logger.Info().Str(logFieldWorker, cfg.Name).Msg("periodic worker stopped")

	if cfg.RunOnStart && cfg.OnTick != nil {
		cfg.OnTick(ctx)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("periodic worker %s: %w", cfg.Name, ctx.Err())
		case <-ticker.C:
			if cfg.OnTick != nil {
				cfg.OnTick(ctx)
			}
		}
	}
}

func getLogger(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		nop := zerolog.Nop()

		return &nop
	}

	return logger
}
