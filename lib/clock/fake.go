// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a Clock that only moves when Advance is called. It is
// safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*waiter
	changed *sync.Cond
}

// waiter is one pending After channel or ticker.
type waiter struct {
	deadline time.Time
	channel  chan time.Time

	// interval is non-zero for tickers, which are rescheduled after
	// every fire.
	interval time.Duration
	stopped  bool
}

// Fake returns a FakeClock reading initial.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{current: initial}
	fake.changed = sync.NewCond(&fake.mu)
	return fake
}

// Now returns the fake time.
func (fake *FakeClock) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.current
}

// After registers a one-shot waiter fired by Advance.
func (fake *FakeClock) After(d time.Duration) <-chan time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- fake.current
		return channel
	}
	fake.waiters = append(fake.waiters, &waiter{
		deadline: fake.current.Add(d),
		channel:  channel,
	})
	fake.changed.Broadcast()
	return channel
}

// NewTicker registers a periodic waiter fired by Advance.
func (fake *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	channel := make(chan time.Time, 1)
	ticking := &waiter{
		deadline: fake.current.Add(d),
		channel:  channel,
		interval: d,
	}
	fake.waiters = append(fake.waiters, ticking)
	fake.changed.Broadcast()

	return &Ticker{
		C: channel,
		stop: func() {
			fake.mu.Lock()
			defer fake.mu.Unlock()
			ticking.stopped = true
		},
		reset: func(d time.Duration) {
			fake.mu.Lock()
			defer fake.mu.Unlock()
			ticking.interval = d
			ticking.deadline = fake.current.Add(d)
			ticking.stopped = false
			for _, pending := range fake.waiters {
				if pending == ticking {
					return
				}
			}
			fake.waiters = append(fake.waiters, ticking)
			fake.changed.Broadcast()
		},
	}
}

// Advance moves the clock forward by d and fires every waiter whose
// deadline has passed, earliest first. A ticker spanning several
// intervals fires once per interval; sends never block, so ticks
// beyond the channel buffer are dropped.
func (fake *FakeClock) Advance(d time.Duration) {
	fake.mu.Lock()
	fake.current = fake.current.Add(d)
	target := fake.current
	fake.mu.Unlock()

	for {
		due := fake.expire(target)
		if len(due) == 0 {
			return
		}
		for _, expired := range due {
			select {
			case expired.channel <- target:
			default:
			}
		}
	}
}

// expire removes due waiters, reschedules tickers, and returns what
// must fire in deadline order.
func (fake *FakeClock) expire(target time.Time) []*waiter {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	var due, remaining []*waiter
	for _, pending := range fake.waiters {
		switch {
		case pending.stopped:
		case pending.deadline.After(target):
			remaining = append(remaining, pending)
		default:
			due = append(due, pending)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, expired := range due {
		if expired.interval > 0 {
			expired.deadline = expired.deadline.Add(expired.interval)
			remaining = append(remaining, expired)
		}
	}
	fake.waiters = remaining
	return due
}

// WaitForTickers blocks until at least n waiters are pending. Tests
// call it after starting a goroutine that creates a ticker, so the
// following Advance cannot race the registration.
func (fake *FakeClock) WaitForTickers(n int) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for fake.pendingLocked() < n {
		fake.changed.Wait()
	}
}

// Pending returns the number of live waiters.
func (fake *FakeClock) Pending() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.pendingLocked()
}

func (fake *FakeClock) pendingLocked() int {
	count := 0
	for _, pending := range fake.waiters {
		if !pending.stopped {
			count++
		}
	}
	return count
}
