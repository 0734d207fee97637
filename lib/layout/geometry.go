// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package layout

// Rect is the rendered box of one chip. Units are whatever the surface
// measures in: pixels in a browser, cells in a terminal.
type Rect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Wrapped reports whether any rectangle sits strictly lower than the
// one before it, which means the sequence broke onto a new line.
func Wrapped(rects []Rect) bool {
	for index := 1; index < len(rects); index++ {
		if rects[index].Top > rects[index-1].Top {
			return true
		}
	}
	return false
}

// FlowSurface lays chips out left to right the way an inline-flex row
// does: each chip goes on the current line if it fits, otherwise it
// starts a new line. A chip wider than the whole line still gets a
// line of its own.
type FlowSurface struct {
	// Width is the number of columns available to the chips.
	Width int

	// Gap is the spacing between adjacent chips on a line.
	Gap int

	// ChipWidths are the rendered widths of the chips in order.
	ChipWidths []int
}

// ViewportWidth returns the available width.
func (surface FlowSurface) ViewportWidth() int {
	return surface.Width
}

// ChipRects returns the flowed chip positions. Every chip is one row
// tall.
func (surface FlowSurface) ChipRects() []Rect {
	rects := make([]Rect, 0, len(surface.ChipWidths))
	column, row := 0, 0
	for _, width := range surface.ChipWidths {
		if column > 0 && column+width > surface.Width {
			row++
			column = 0
		}
		rects = append(rects, Rect{Top: row, Left: column, Width: width, Height: 1})
		column += width + surface.Gap
	}
	return rects
}

// StaticSurface reports fixed values. Tests and callers that already
// hold measured rectangles use it.
type StaticSurface struct {
	Width int
	Rects []Rect
}

// ViewportWidth returns the fixed width.
func (surface StaticSurface) ViewportWidth() int { return surface.Width }

// ChipRects returns the fixed rectangles.
func (surface StaticSurface) ChipRects() []Rect { return surface.Rects }
