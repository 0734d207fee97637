// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package filterbar

import (
	"strconv"

	"github.com/lumen-analytics/lumen/lib/layout"
)

// Mode selects what the filter dropdown lists.
type Mode int

const (
	// ModePicker lists every filter group.
	ModePicker Mode = iota

	// ModeList lists the active filters with add and clear actions.
	ModeList
)

// ItemKind says what choosing a dropdown item does.
type ItemKind int

const (
	ItemGroup ItemKind = iota
	ItemFilter
	ItemAdd
	ItemClear
)

// Item is one dropdown row.
type Item struct {
	Kind  ItemKind
	Label Text

	// Chip is set for ItemFilter rows.
	Chip Chip

	// Group is set for ItemGroup rows.
	Group Group
}

// Menu is the dropdown content for one render.
type Menu struct {
	Mode  Mode
	Items []Item
}

// Dropdown is the local open/adding state of the filter dropdown.
type Dropdown struct {
	Open   bool
	Adding bool
}

// Toggle opens a closed dropdown or closes an open one. Closing always
// leaves adding mode.
func (dropdown *Dropdown) Toggle() {
	if dropdown.Open {
		dropdown.Close()
		return
	}
	dropdown.Open = true
}

// Close closes the dropdown and leaves adding mode.
func (dropdown *Dropdown) Close() {
	dropdown.Open = false
	dropdown.Adding = false
}

// Content returns the dropdown rows. With no active filters, or once
// the user asked to add one, the dropdown is the group picker.
// Otherwise it lists the active filters, each removable, framed by
// "+ Add filter" and "Clear All Filters".
func Content(bar Bar, dropdown Dropdown) Menu {
	chips := bar.Chips()
	if len(chips) == 0 || dropdown.Adding {
		items := make([]Item, 0, len(Groups))
		for _, group := range Groups {
			items = append(items, Item{
				Kind:  ItemGroup,
				Label: Text{Prefix: FormatGroup(group)},
				Group: group,
			})
		}
		return Menu{Mode: ModePicker, Items: items}
	}

	items := make([]Item, 0, len(chips)+2)
	items = append(items, Item{Kind: ItemAdd, Label: Text{Prefix: "+ Add filter"}})
	for _, chip := range chips {
		items = append(items, Item{Kind: ItemFilter, Label: chip.Label, Chip: chip})
	}
	items = append(items, Item{Kind: ItemClear, Label: Text{Prefix: "Clear All Filters"}})
	return Menu{Mode: ModeList, Items: items}
}

// Activate performs the action of item. Adding switches the dropdown
// to the picker and keeps it open; every other action navigates and
// closes it.
func (dropdown *Dropdown) Activate(bar Bar, item Item) {
	switch item.Kind {
	case ItemAdd:
		dropdown.Open = true
		dropdown.Adding = true
	case ItemGroup:
		dropdown.Close()
		bar.AddFilter(item.Group)
	case ItemFilter:
		dropdown.Close()
		bar.RemoveFilter(item.Chip.Key)
	case ItemClear:
		dropdown.Close()
		bar.ClearAllFilters()
	}
}

// TriggerLabel returns the dropdown button text: the filter count when
// the chips are collapsed, a generic add affordance otherwise.
func TriggerLabel(state layout.State, count int) string {
	if state == layout.Collapsed {
		return strconv.Itoa(count) + " Filters"
	}
	return "Add filter"
}
