package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPeriodic_TicksUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ticks atomic.Int32

	done := make(chan error, 1)

	go func() {
		done <- RunPeriodic(ctx, PeriodicConfig{
			Name:     "test",
			Interval: 5 * time.Millisecond,
			OnTick:   func(context.Context) { ticks.Add(1) },
		})
	}()

	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunPeriodic_RunOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ticks atomic.Int32

	done := make(chan error, 1)

	go func() {
		done <- RunPeriodic(ctx, PeriodicConfig{
			Name:       "test",
			Interval:   time.Hour,
			RunOnStart: true,
			OnTick:     func(context.Context) { ticks.Add(1) },
		})
	}()

	assert.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
