package service

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoop_TicksAndStops(t *testing.T) {
	var ticks atomic.Int64
	loop := NewLoop("test", 10*time.Millisecond, time.Second, func(ctx context.Context) {
		ticks.Add(1)
	}, zerolog.New(io.Discard))

	loop.Start()
	time.Sleep(55 * time.Millisecond)
	loop.Stop()

	count := ticks.Load()
	assert.GreaterOrEqual(t, count, int64(2))

	// No ticks after Stop returns.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, ticks.Load())
}

func TestLoop_StopIsIdempotent(t *testing.T) {
	loop := NewLoop("test", 10*time.Millisecond, time.Second, func(ctx context.Context) {}, zerolog.New(io.Discard))
	loop.Start()

	loop.Stop()
	assert.NotPanics(t, func() { loop.Stop() })
}

func TestLoop_StopBeforeStartIsNoop(t *testing.T) {
	loop := NewLoop("test", 10*time.Millisecond, time.Second, func(ctx context.Context) {}, zerolog.New(io.Discard))

	done := make(chan struct{})
	go func() {
		loop.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop before Start must return immediately")
	}
}

func TestLoop_TickTimeout(t *testing.T) {
	deadlineSet := make(chan bool, 1)
	loop := NewLoop("test", 10*time.Millisecond, 50*time.Millisecond, func(ctx context.Context) {
		_, ok := ctx.Deadline()
		select {
		case deadlineSet <- ok:
		default:
		}
	}, zerolog.New(io.Discard))

	loop.Start()
	defer loop.Stop()

	select {
	case ok := <-deadlineSet:
		assert.True(t, ok, "tick context should carry a deadline")
	case <-time.After(time.Second):
		t.Fatal("loop never ticked")
	}
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	var ticks atomic.Int64
	loop := NewLoop("test", 10*time.Millisecond, time.Second, func(ctx context.Context) {
		ticks.Add(1)
		panic("boom")
	}, zerolog.New(io.Discard))

	loop.Start()
	time.Sleep(45 * time.Millisecond)
	loop.Stop()

	assert.GreaterOrEqual(t, ticks.Load(), int64(2), "loop should keep ticking after a panic")
}
