// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package poll runs the recurring tick behind live dashboard updates.
//
// A [Timer] owns at most one ticker goroutine no matter how often it
// is started, and callbacks are registered by name, so re-registering
// a panel's refresh replaces the old callback instead of stacking a
// second one.
package poll

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/lumen-analytics/lumen/lib/clock"
)

// Timer calls its registered callbacks once per interval while
// started.
type Timer struct {
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	mu        sync.Mutex
	callbacks map[string]func()
	cancel    context.CancelFunc
	done      chan struct{}
}

// New returns a stopped Timer. Panics if interval is not positive. A
// nil logger discards output.
func New(interval time.Duration, source clock.Clock, logger *slog.Logger) *Timer {
	if interval <= 0 {
		panic("poll: non-positive interval")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Timer{
		interval:  interval,
		clock:     source,
		logger:    logger,
		callbacks: make(map[string]func()),
	}
}

// Interval returns the tick interval.
func (timer *Timer) Interval() time.Duration {
	return timer.interval
}

// OnTick registers fn under name, replacing any callback already
// registered under that name.
func (timer *Timer) OnTick(name string, fn func()) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.callbacks[name] = fn
}

// Remove unregisters the callback for name.
func (timer *Timer) Remove(name string) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	delete(timer.callbacks, name)
}

// Start launches the tick goroutine. Starting a running Timer does
// nothing. The goroutine exits when ctx is cancelled or Stop is
// called.
func (timer *Timer) Start(ctx context.Context) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	timer.cancel = cancel
	timer.done = done

	ticker := timer.clock.NewTicker(timer.interval)
	go timer.loop(ctx, ticker, done)
	timer.logger.Debug("poll timer started", "interval", timer.interval)
}

// Stop halts the tick goroutine and waits for it to exit. Stopping a
// stopped Timer does nothing.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	cancel, done := timer.cancel, timer.done
	timer.cancel, timer.done = nil, nil
	timer.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the tick goroutine is active.
func (timer *Timer) Running() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.cancel != nil
}

func (timer *Timer) loop(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			timer.fire()
		}
	}
}

// fire runs the callbacks in name order outside the lock, so a
// callback may call OnTick or Remove.
func (timer *Timer) fire() {
	timer.mu.Lock()
	names := make([]string, 0, len(timer.callbacks))
	for name := range timer.callbacks {
		names = append(names, name)
	}
	sort.Strings(names)
	callbacks := make([]func(), 0, len(names))
	for _, name := range names {
		callbacks = append(callbacks, timer.callbacks[name])
	}
	timer.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}
