package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPool(t *testing.T, concurrency, queueSize int) AnalysisPool {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewAnalysisPool(concurrency, queueSize, zerolog.Nop())
	pool.Start(ctx)
	t.Cleanup(func() {
		pool.Stop()
		cancel()
	})
	return pool
}

func TestAnalysisPool_ReturnsTaskError(t *testing.T) {
	pool := startPool(t, 1, 1)
	want := errors.New("task failed")

	err := pool.Submit(context.Background(), func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)

	err = pool.Submit(context.Background(), func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestAnalysisPool_CapsConcurrency(t *testing.T) {
	const concurrency = 2
	pool := startPool(t, concurrency, 10)

	var (
		inFlight atomic.Int32
		peak     atomic.Int32
		wg       sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.Submit(context.Background(), func(context.Context) error {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(concurrency))
	assert.Positive(t, peak.Load())
}

func TestAnalysisPool_RecoversPanics(t *testing.T) {
	pool := startPool(t, 1, 1)

	err := pool.Submit(context.Background(), func(context.Context) error { panic("boom") })
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInternal))

	assert.NoError(t, pool.Submit(context.Background(), func(context.Context) error { return nil }))
}

func TestAnalysisPool_CancelledBeforeRun(t *testing.T) {
	pool := startPool(t, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := pool.Submit(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

func TestAnalysisPool_SaturatedWhenQueueFull(t *testing.T) {
	pool := startPool(t, 1, 0)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = pool.Submit(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := pool.Submit(ctx, func(context.Context) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPoolSaturated)
}

func TestAnalysisPool_SubmitAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewAnalysisPool(1, 1, zerolog.Nop())
	pool.Start(ctx)
	pool.Stop()
	pool.Stop()

	err := pool.Submit(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolStopped)
}
