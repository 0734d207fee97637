// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the lumen
// binary.
//
// Three package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//
// [Version] is set manually for releases. Unset values read "unknown"
// or "0.1.0-dev", which is what development builds and tests see.
//
// [Info] is the one-line form printed by --version; [Full] adds the Go
// toolchain and platform.
package version
