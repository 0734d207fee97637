// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package geo maps the country codes reported by the stats API to
// display names. The table is embedded at compile time as JSONC so
// entries can carry comments.
package geo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tidwall/jsonc"
)

//go:embed countries.jsonc
var countriesSource []byte

var (
	countriesOnce  sync.Once
	countries      map[string]string
	countriesError error
)

// Parse strips JSONC comments and trailing commas from data and decodes
// a code -> name object.
func Parse(data []byte) (map[string]string, error) {
	var table map[string]string
	if err := json.Unmarshal(jsonc.ToJSON(data), &table); err != nil {
		return nil, fmt.Errorf("parsing country table: %w", err)
	}
	return table, nil
}

func load() (map[string]string, error) {
	countriesOnce.Do(func() {
		countries, countriesError = Parse(countriesSource)
	})
	return countries, countriesError
}

// Name returns the display name for a country code, or false when the
// code is unknown. A corrupt embedded table is a build defect and
// panics on first use.
func Name(code string) (string, bool) {
	table, err := load()
	if err != nil {
		panic("geo: " + err.Error())
	}
	name, ok := table[code]
	return name, ok
}

// NameOr returns the display name for code, falling back to the code
// itself when the table has no entry.
func NameOr(code string) string {
	if name, ok := Name(code); ok {
		return name
	}
	return code
}

// Codes returns the number of known country codes.
func Codes() int {
	table, err := load()
	if err != nil {
		panic("geo: " + err.Error())
	}
	return len(table)
}
