// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/lipgloss"

// Theme defines the dashboard color palette. All colors use lipgloss
// ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Filter chips and the dropdown trigger.
	ChipForeground    lipgloss.Color
	ChipBackground    lipgloss.Color
	TriggerForeground lipgloss.Color

	// Proportional bar behind each panel row.
	BarBackground lipgloss.Color

	// Conversion rate column.
	RateForeground lipgloss.Color

	// Status line severities.
	WarnForeground  lipgloss.Color
	ErrorForeground lipgloss.Color

	// Dropdown overlay.
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ChipForeground:    lipgloss.Color("255"),
	ChipBackground:    lipgloss.Color("60"), // muted indigo
	TriggerForeground: lipgloss.Color("75"), // blue

	BarBackground: lipgloss.Color("23"), // dark teal

	RateForeground: lipgloss.Color("114"), // green

	WarnForeground:  lipgloss.Color("220"), // amber
	ErrorForeground: lipgloss.Color("196"), // red

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
