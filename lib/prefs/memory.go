// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package prefs

import (
	"context"
	"sync"

	"github.com/lumen-analytics/lumen/lib/clock"
)

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	clock clock.Clock

	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore returns an empty MemoryStore. A nil clock uses the
// wall clock.
func NewMemoryStore(source clock.Clock) *MemoryStore {
	if source == nil {
		source = clock.Real()
	}
	return &MemoryStore{clock: source, records: make(map[string]Record)}
}

func (store *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	record, ok := store.records[key]
	return record.Value, ok, nil
}

func (store *MemoryStore) Set(ctx context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.records[key] = Record{Value: value, UpdatedAt: store.clock.Now().UnixMilli()}
	return nil
}

// Record returns the full stored record for key.
func (store *MemoryStore) Record(key string) (Record, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	record, ok := store.records[key]
	return record, ok
}

func (store *MemoryStore) Close() error { return nil }
