package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Loop runs a named function on a fixed interval in its own goroutine.
// Ticks are serialized: a slow tick delays the next one rather than
// overlapping it. Each tick gets a bounded context.
type Loop struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fn       func(ctx context.Context)
	log      zerolog.Logger

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewLoop creates a loop. Start must be called to begin ticking.
func NewLoop(name string, interval, timeout time.Duration, fn func(ctx context.Context), log zerolog.Logger) *Loop {
	return &Loop{
		name:     name,
		interval: interval,
		timeout:  timeout,
		fn:       fn,
		log:      log.With().Str("loop", name).Logger(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start() {
	l.started = true
	go l.run()
	l.log.Info().Dur("interval", l.interval).Msg("loop started")
}

// Stop halts the loop and waits for any in-flight tick to finish.
// Safe to call more than once, and a no-op before Start.
func (l *Loop) Stop() {
	if !l.started {
		return
	}
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	<-l.done
	l.log.Info().Msg("loop stopped")
}

func (l *Loop) run() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.tick()
		}
	}
}

func (l *Loop) tick() {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Msg("loop tick panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	l.fn(ctx)
}
