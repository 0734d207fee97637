// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lumen-analytics/lumen/lib/filterbar"
	"github.com/lumen-analytics/lumen/lib/layout"
)

const (
	// chipGap is the column gap between chips on a line.
	chipGap = 1

	// maxChipLabel caps a chip label; longer labels are truncated.
	maxChipLabel = 40
)

// renderedChip is a chip as drawn, with its visible width.
type renderedChip struct {
	chip  filterbar.Chip
	text  string
	width int
}

// chipSurface is the layout provider for the filter bar: the viewport
// is the terminal width, and chips flow into the columns left of the
// dropdown trigger.
type chipSurface struct {
	viewport int
	flow     layout.FlowSurface
}

func (surface chipSurface) ViewportWidth() int { return surface.viewport }

func (surface chipSurface) ChipRects() []layout.Rect { return surface.flow.ChipRects() }

func (model Model) renderChips() []renderedChip {
	chipStyle := lipgloss.NewStyle().
		Foreground(model.theme.ChipForeground).
		Background(model.theme.ChipBackground)
	emphasisStyle := chipStyle.Bold(true)

	chips := filterbar.New(model.query, nil).Chips()
	rendered := make([]renderedChip, 0, len(chips))
	for _, chip := range chips {
		var text string
		if ansi.StringWidth(chip.Label.String()) <= maxChipLabel {
			text = chipStyle.Render(" "+chip.Label.Prefix) +
				emphasisStyle.Render(chip.Label.Emphasis) +
				chipStyle.Render(" ✕ ")
		} else {
			text = chipStyle.Render(" " + filterbar.Truncate(chip.Label.String(), maxChipLabel) + " ✕ ")
		}
		rendered = append(rendered, renderedChip{chip: chip, text: text, width: ansi.StringWidth(text)})
	}
	return rendered
}

// triggerText is the dropdown button for the current collapse state.
func (model Model) triggerText() string {
	label := filterbar.TriggerLabel(model.detector.State(), model.query.ActiveCount())
	return " " + label + " ▾ "
}

// surface returns the measurement provider for the chips of the
// current query at the current width.
func (model Model) surface() chipSurface {
	chips := model.renderChips()
	widths := make([]int, len(chips))
	for index, chip := range chips {
		widths[index] = chip.width
	}
	flowWidth := model.width - ansi.StringWidth(model.triggerText()) - 1
	if flowWidth < 1 {
		flowWidth = 1
	}
	return chipSurface{
		viewport: model.width,
		flow: layout.FlowSurface{
			Width:      flowWidth,
			Gap:        chipGap,
			ChipWidths: widths,
		},
	}
}

// renderFilterBar draws the chips inline (as many lines as they wrap
// to) or, when collapsed, only the trigger. The trigger always sits at
// the right end of the first line.
func (model Model) renderFilterBar() []string {
	triggerStyle := lipgloss.NewStyle().
		Foreground(model.theme.TriggerForeground).
		Bold(true)
	trigger := triggerStyle.Render(model.triggerText())
	triggerWidth := ansi.StringWidth(trigger)
	triggerColumn := model.width - triggerWidth
	if triggerColumn < 0 {
		triggerColumn = 0
	}

	chips := model.renderChips()
	if model.detector.State() == layout.Collapsed || len(chips) == 0 {
		return []string{strings.Repeat(" ", triggerColumn) + trigger}
	}

	rects := model.surface().ChipRects()
	var lines []string
	column := 0
	for index, chip := range chips {
		row := rects[index].Top
		for len(lines) <= row {
			lines = append(lines, "")
			column = 0
		}
		if gap := rects[index].Left - column; gap > 0 {
			lines[row] += strings.Repeat(" ", gap)
		}
		lines[row] += chip.text
		column = rects[index].Left + chip.width
	}

	first := lines[0]
	if pad := triggerColumn - ansi.StringWidth(first); pad > 0 {
		first += strings.Repeat(" ", pad)
	}
	lines[0] = first + trigger
	return lines
}
