// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// lumen is a terminal dashboard for a web analytics server. It shows
// the Top Sources panel for one site under an editable filter bar,
// refreshing live when the period is realtime.
//
// Configuration comes from the YAML file named by --config or
// LUMEN_CONFIG (see lib/config); flags override individual fields.
// With --print, lumen fetches the panel once and writes it as a table
// instead of starting the interactive view, which is handy in scripts
// and for checking a filter before opening the dashboard.
package main
