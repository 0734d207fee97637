// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"
	"sync"

	"github.com/lumen-analytics/lumen/lib/query"
)

// Ticket identifies one issued fetch.
type Ticket struct {
	Generation  uint64
	Fingerprint query.Fingerprint
	Tab         Tab
}

// Guard admits only the most recently issued fetch. Issuing a new
// ticket cancels the context of the previous one, and Current rejects
// every ticket but the latest, so a response that arrives late is
// dropped even if it slipped past cancellation.
type Guard struct {
	mu         sync.Mutex
	generation uint64
	latest     Ticket
	cancel     context.CancelFunc
}

// Issue starts a new fetch for current and tab. The returned context
// is derived from parent and is cancelled by the next Issue or by
// Cancel.
func (guard *Guard) Issue(parent context.Context, current query.Query, tab Tab) (context.Context, Ticket) {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	if guard.cancel != nil {
		guard.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	guard.cancel = cancel
	guard.generation++
	guard.latest = Ticket{
		Generation:  guard.generation,
		Fingerprint: current.Fingerprint(),
		Tab:         tab,
	}
	return ctx, guard.latest
}

// Current reports whether ticket is the latest one issued.
func (guard *Guard) Current(ticket Ticket) bool {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	return ticket.Generation != 0 && ticket == guard.latest
}

// Settle releases the context of ticket once its response has been
// handled. Settling a superseded ticket does nothing.
func (guard *Guard) Settle(ticket Ticket) {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if ticket == guard.latest && guard.cancel != nil {
		guard.cancel()
		guard.cancel = nil
	}
}

// Cancel aborts the in-flight fetch, if any, and invalidates every
// issued ticket.
func (guard *Guard) Cancel() {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.cancel != nil {
		guard.cancel()
		guard.cancel = nil
	}
	guard.generation++
	guard.latest = Ticket{Generation: guard.generation}
}
