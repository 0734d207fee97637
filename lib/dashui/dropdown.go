// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lumen-analytics/lumen/lib/filterbar"
)

// maxDropdownLabel caps the label width inside the dropdown.
const maxDropdownLabel = 48

// DropdownOverlay renders the filter dropdown as a floating menu
// anchored under its trigger. It captures keyboard input while open:
// up/down move the cursor, enter activates, escape dismisses. The
// model rebuilds the menu from the filter bar on every change, so the
// overlay only owns the cursor.
type DropdownOverlay struct {
	Menu    filterbar.Menu
	Cursor  int
	AnchorX int // Screen X coordinate of the dropdown's top-left corner.
	AnchorY int // Screen Y coordinate of the dropdown's top-left corner.
}

// SetMenu replaces the menu, keeping the cursor in range.
func (dropdown *DropdownOverlay) SetMenu(menu filterbar.Menu) {
	if menu.Mode != dropdown.Menu.Mode {
		dropdown.Cursor = 0
	}
	dropdown.Menu = menu
	if dropdown.Cursor >= len(menu.Items) {
		dropdown.Cursor = len(menu.Items) - 1
	}
	if dropdown.Cursor < 0 {
		dropdown.Cursor = 0
	}
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *DropdownOverlay) MoveUp() {
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Menu.Items) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *DropdownOverlay) MoveDown() {
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Menu.Items) {
		dropdown.Cursor = 0
	}
}

// Selected returns the highlighted item. ok is false for an empty menu.
func (dropdown *DropdownOverlay) Selected() (filterbar.Item, bool) {
	if dropdown.Cursor < 0 || dropdown.Cursor >= len(dropdown.Menu.Items) {
		return filterbar.Item{}, false
	}
	return dropdown.Menu.Items[dropdown.Cursor], true
}

// Width returns the total visible width of the rendered dropdown.
func (dropdown *DropdownOverlay) Width() int {
	maxLabelWidth := 0
	for _, item := range dropdown.Menu.Items {
		labelWidth := ansi.StringWidth(itemText(item))
		if labelWidth > maxLabelWidth {
			maxLabelWidth = labelWidth
		}
	}
	if maxLabelWidth > maxDropdownLabel {
		maxLabelWidth = maxDropdownLabel
	}
	// Layout: " > LABEL " -- space, marker, space, label, space.
	return 3 + maxLabelWidth + 1
}

// itemText is the plain row text. Filter rows carry a remove marker.
func itemText(item filterbar.Item) string {
	if item.Kind == filterbar.ItemFilter {
		return item.Label.String() + " ✕"
	}
	return item.Label.String()
}

// Render produces the dropdown lines for overlay splicing. Every line
// has the same visible width and a solid background.
func (dropdown *DropdownOverlay) Render(theme Theme) []string {
	totalWidth := dropdown.Width()
	labelWidth := totalWidth - 4

	backgroundStyle := lipgloss.NewStyle().
		Foreground(theme.OverlayForeground).
		Background(theme.OverlayBackground)
	selectedStyle := lipgloss.NewStyle().
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground)

	lines := make([]string, 0, len(dropdown.Menu.Items))
	for index, item := range dropdown.Menu.Items {
		style := backgroundStyle
		marker := " "
		if index == dropdown.Cursor {
			style = selectedStyle
			marker = ">"
		}
		label := filterbar.Truncate(itemText(item), labelWidth)
		lines = append(lines, padLine(style.Render(" "+marker+" "+label+" "), totalWidth, style))
	}
	return lines
}
