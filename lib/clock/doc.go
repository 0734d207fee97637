// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the time source behind live polling and status
// message expiry.
//
// Code that waits on time takes a [Clock] instead of calling the time
// package. The binary passes [Real]; tests pass a [FakeClock] from
// [Fake] and move it forward with [FakeClock.Advance]:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	timer := poll.New(30*time.Second, fake, logger)
//	timer.Start(ctx)
//	fake.WaitForTickers(1)
//	fake.Advance(30 * time.Second)
package clock
