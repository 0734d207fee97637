// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package prefs

import (
	"context"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases the store's resources.
	Close() error
}

// Record is the stored form of one value.
type Record struct {
	Value string `cbor:"1,keyasint"`

	// UpdatedAt is the write time in Unix milliseconds.
	UpdatedAt int64 `cbor:"2,keyasint"`
}

var (
	recordEncoding cbor.EncMode
	recordDecoding cbor.DecMode
)

func init() {
	var err error
	recordEncoding, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("prefs: CBOR encoder initialization failed: " + err.Error())
	}
	recordDecoding, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("prefs: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeRecord returns the CBOR encoding of record.
func EncodeRecord(record Record) ([]byte, error) {
	data, err := recordEncoding.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("prefs: encoding record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a stored record.
func DecodeRecord(data []byte) (Record, error) {
	var record Record
	if err := recordDecoding.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("prefs: decoding record: %w", err)
	}
	return record, nil
}
