// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for lumen.
//
// Configuration is loaded from a single file named by either the
// LUMEN_CONFIG environment variable (via [Load]) or the --config flag
// (via [LoadFile]). When neither is given, [Default] applies unchanged:
// lumen works against a local stats server with no file at all.
// Command-line flags override file values after loading.
//
// Variable expansion runs on the state path and the API token after
// loading: ${HOME}, ${XDG_STATE_HOME}, and ${VAR:-default} patterns are
// expanded from the process environment. Keeping the token as
// "${LUMEN_TOKEN}" in the file keeps the secret out of the file.
//
// Key exports:
//
//   - [Config] -- master struct with API, Dashboard, State, Logging
//   - [Default] -- returns a Config with working defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other lumen packages.
package config
