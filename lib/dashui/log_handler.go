// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display in the
// status line.
type logRecordMsg struct {
	// Summary is the one-line message for the status line.
	Summary string

	// Level is the slog level for styling (warn vs error).
	Level slog.Level
}

// logRecordFadeMsg clears a log message from the status line. Serial
// matches the record it fades, so an older fade never clears a newer
// message.
type logRecordFadeMsg struct {
	Serial int
}

// logRecordFadeDelay is how long log messages stay visible before the
// status line falls back to the key help.
const logRecordFadeDelay = 5 * time.Second

// Sender is the part of a tea.Program the log handler needs.
type Sender interface {
	Send(message tea.Msg)
}

// TUILogHandler is a slog.Handler that routes log records into a
// bubbletea program as messages. Records below the configured level
// are dropped. The handler is created before the program starts; call
// SetProgram once it exists. Records arriving before that are dropped.
//
// Handlers derived via WithAttrs/WithGroup share the program pointer,
// so one SetProgram call reaches all of them.
type TUILogHandler struct {
	level   slog.Leveler
	program *atomic.Pointer[Sender]
	attrs   []slog.Attr
	groups  []string
}

// NewTUILogHandler creates a handler delivering records at or above
// level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[Sender]{},
	}
}

// SetProgram sets the program that receives log messages. Safe to call
// from any goroutine.
func (handler *TUILogHandler) SetProgram(program Sender) {
	handler.program.Store(&program)
}

// Enabled reports whether the handler wants records at level.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle formats the record as "message (key=value, ...)" and sends
// it to the program.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}

	prefix := handler.groupPrefix()
	var attrParts []string
	for _, attr := range handler.attrs {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})

	summary := record.Message
	if len(attrParts) > 0 {
		summary += " (" + strings.Join(attrParts, ", ") + ")"
	}

	(*program).Send(logRecordMsg{
		Summary: summary,
		Level:   record.Level,
	})
	return nil
}

// WithAttrs returns a handler with attrs appended. The attrs are
// qualified by the groups open at this point, not by later ones.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := handler.groupPrefix()
	combined := sliceClone(handler.attrs)
	for _, attr := range attrs {
		attr.Key = prefix + attr.Key
		combined = append(combined, attr)
	}
	return &TUILogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   combined,
		groups:  sliceClone(handler.groups),
	}
}

func (handler *TUILogHandler) groupPrefix() string {
	if len(handler.groups) == 0 {
		return ""
	}
	return strings.Join(handler.groups, ".") + "."
}

// WithGroup returns a handler with the group name appended.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	return &TUILogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   sliceClone(handler.attrs),
		groups:  append(sliceClone(handler.groups), name),
	}
}

func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}

// TeeHandler fans records out to several handlers, the way the TUI
// handler and an optional log file both see every record.
type TeeHandler []slog.Handler

// Enabled reports whether any handler wants records at level.
func (tee TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range tee {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every handler that wants it and returns
// the first error.
func (tee TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	var first error
	for _, handler := range tee {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WithAttrs applies attrs to every handler.
func (tee TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(TeeHandler, len(tee))
	for index, handler := range tee {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

// WithGroup applies the group to every handler.
func (tee TeeHandler) WithGroup(name string) slog.Handler {
	derived := make(TeeHandler, len(tee))
	for index, handler := range tee {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
