// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// Fingerprint is a 32-byte BLAKE3 digest identifying a query by value.
type Fingerprint [32]byte

// String returns the first 8 bytes in hex, enough to tell queries
// apart in log lines.
func (fingerprint Fingerprint) String() string {
	return hex.EncodeToString(fingerprint[:8])
}

// fingerprintKey is the BLAKE3 key for query fingerprints: the ASCII
// domain name zero-padded to 32 bytes.
var fingerprintKey = [32]byte{
	'l', 'u', 'm', 'e', 'n', '.', 'q', 'u', 'e', 'r', 'y', '.',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't',
}

// canonicalEncoding is Core Deterministic CBOR (RFC 8949 §4.2): the
// same logical query always produces the same bytes.
var canonicalEncoding cbor.EncMode

func init() {
	var err error
	canonicalEncoding, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("query: CBOR encoder initialization failed: " + err.Error())
	}
}

type canonicalFilter struct {
	Key   Key   `cbor:"1,keyasint"`
	Value Value `cbor:"2,keyasint"`
}

type canonicalQuery struct {
	Period  string            `cbor:"1,keyasint,omitempty"`
	Date    string            `cbor:"2,keyasint,omitempty"`
	From    string            `cbor:"3,keyasint,omitempty"`
	To      string            `cbor:"4,keyasint,omitempty"`
	Filters []canonicalFilter `cbor:"5,keyasint,omitempty"`
}

// Canonical returns the deterministic CBOR encoding of q. Inactive
// filter entries are dropped and active ones are listed in canonical
// key order, so queries that differ only in map layout encode alike.
func (q Query) Canonical() []byte {
	encoded := canonicalQuery{
		Period: q.Period,
		Date:   q.Date,
		From:   q.From,
		To:     q.To,
	}
	for _, filter := range q.AppliedFilters() {
		encoded.Filters = append(encoded.Filters, canonicalFilter{
			Key:   filter.Key,
			Value: filter.Value,
		})
	}
	data, err := canonicalEncoding.Marshal(encoded)
	if err != nil {
		panic("query: canonical encoding: " + err.Error())
	}
	return data
}

// Fingerprint returns the keyed BLAKE3 hash of the canonical encoding.
func (q Query) Fingerprint() Fingerprint {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("query: BLAKE3 keyed hasher: " + err.Error())
	}
	hasher.Write(q.Canonical())
	var fingerprint Fingerprint
	copy(fingerprint[:], hasher.Sum(nil))
	return fingerprint
}

// Equal reports whether two queries are deep-equal.
func (q Query) Equal(other Query) bool {
	return q.Fingerprint() == other.Fingerprint()
}
