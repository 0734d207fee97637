// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the error, exit-code, and logging conventions shared
// by the lumen command.
//
// Errors returned to main are categorized [ToolError] values so the
// exit status tells a script whether to fix its input, retry, or
// report a bug. [ExitError] carries a status for outcomes the command
// already explained on its own, such as an empty --print list
// ([ExitNoRows]).
package cli
