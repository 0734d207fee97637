// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for command output on
// stderr. When stderr is a terminal it uses slog.TextHandler for
// human-readable output; when piped or redirected it uses
// slog.JSONHandler so scripts can parse it.
func NewCommandLogger(level slog.Leveler) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, level, term.IsTerminal(int(os.Stderr.Fd()))))
}

// NewHandler returns a text handler for interactive output, or a JSON
// handler otherwise, writing records at or above level to writer.
func NewHandler(writer io.Writer, level slog.Leveler, interactive bool) slog.Handler {
	options := &slog.HandlerOptions{Level: level}
	if interactive {
		return slog.NewTextHandler(writer, options)
	}
	return slog.NewJSONHandler(writer, options)
}
