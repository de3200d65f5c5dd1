package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunner_ExecutesSubmittedTasks(t *testing.T) {
	r := NewRunner(2, 10, zaptest.NewLogger(t))
	defer r.Stop()

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := r.Submit("increment", func(ctx context.Context) error {
			defer wg.Done()
			count.Add(1)
			return nil
		})
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, int32(5), count.Load())
}

func TestRunner_RejectsWhenQueueFull(t *testing.T) {
	r := NewRunner(1, 1, zaptest.NewLogger(t))
	defer r.Stop()

	block := make(chan struct{})

	// First task occupies the single worker, second fills the queue.
	require.NoError(t, r.Submit("blocker", func(ctx context.Context) error {
		<-block
		return nil
	}))

	// Give the worker a moment to pick up the blocker.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, r.Submit("queued", func(ctx context.Context) error { return nil }))

	err := r.Submit("rejected", func(ctx context.Context) error { return nil })
	assert.Error(t, err)

	close(block)
}

func TestRunner_StopWaitsForInflight(t *testing.T) {
	r := NewRunner(1, 5, zaptest.NewLogger(t))

	var done atomic.Bool
	require.NoError(t, r.Submit("slow", func(ctx context.Context) error {
		time.Sleep(30 * time.Millisecond)
		done.Store(true)
		return nil
	}))

	r.Stop()
	assert.True(t, done.Load())

	// Submitting after Stop fails.
	assert.Error(t, r.Submit("late", func(ctx context.Context) error { return nil }))
}

func TestRunner_StopCancelsTaskContext(t *testing.T) {
	r := NewRunner(1, 5, zaptest.NewLogger(t))

	var sawCancel atomic.Bool
	started := make(chan struct{})
	require.NoError(t, r.Submit("waits-for-shutdown", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	}))
	<-started

	// Stop must unblock the task via its context, or this would deadlock.
	r.Stop()
	assert.True(t, sawCancel.Load())
}

func TestRunner_RecoversFromPanic(t *testing.T) {
	r := NewRunner(1, 5, zaptest.NewLogger(t))
	defer r.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, r.Submit("panics", func(ctx context.Context) error {
		defer wg.Done()
		panic("boom")
	}))
	wg.Wait()

	// The worker survives and keeps processing.
	wg.Add(1)
	var ran atomic.Bool
	require.NoError(t, r.Submit("after-panic", func(ctx context.Context) error {
		defer wg.Done()
		ran.Store(true)
		return nil
	}))
	wg.Wait()
	assert.True(t, ran.Load())
}
