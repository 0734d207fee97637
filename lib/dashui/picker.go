// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumen-analytics/lumen/lib/filterbar"
	"github.com/lumen-analytics/lumen/lib/query"
)

// picker is the filter-selection view for one group: a text input for
// the value of one of the group's keys.
type picker struct {
	group    filterbar.Group
	keys     []query.Key
	keyIndex int
	input    textinput.Model
	err      string
}

// newPicker opens the picker on the group's first key, prefilled with
// that key's current value.
func newPicker(group filterbar.Group, current query.Query) picker {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 256
	input.Width = 40
	input.Focus()

	selection := picker{
		group: group,
		keys:  group.Keys(),
		input: input,
	}
	selection.load(current)
	return selection
}

// key returns the key being edited.
func (selection picker) key() query.Key {
	if len(selection.keys) == 0 {
		return ""
	}
	return selection.keys[selection.keyIndex]
}

// cycle moves to the group's next key and loads its current value.
func (selection *picker) cycle(current query.Query) {
	if len(selection.keys) == 0 {
		return
	}
	selection.keyIndex = (selection.keyIndex + 1) % len(selection.keys)
	selection.load(current)
}

func (selection *picker) load(current query.Query) {
	selection.err = ""
	selection.input.Placeholder = placeholderFor(selection.key())
	value, _ := current.Get(selection.key())
	selection.input.SetValue(value.String())
	selection.input.CursorEnd()
}

func placeholderFor(key query.Key) string {
	switch key {
	case query.KeyProps:
		return "property:value"
	case query.KeyCountry:
		return "country code, e.g. DEU"
	case query.KeyPage, query.KeyEntryPage, query.KeyExitPage:
		return "/path"
	default:
		return string(key)
	}
}

// value parses the input for the current key. A key that only
// refines another (props refines goal) is refused until its parent is
// part of current.
func (selection picker) value(current query.Query) (query.Value, error) {
	if parent, ok := selection.key().Parent(); ok && !current.Has(parent) {
		return query.Value{}, fmt.Errorf("%s needs the %s filter set first",
			selection.key(), filterbar.FormatGroup(filterbar.Group(parent)))
	}
	text := strings.TrimSpace(selection.input.Value())
	if text == "" {
		return query.Value{}, errors.New("enter a value")
	}
	filter, err := query.ParseFilter(string(selection.key()) + "=" + text)
	if err != nil {
		return query.Value{}, err
	}
	return filter.Value, nil
}

// render draws the picker box.
func (selection picker) render(theme Theme, width int) []string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	activeStyle := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(theme.HeaderForeground)
	inactiveStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(theme.ErrorForeground)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1)
	if width > 4 {
		boxStyle = boxStyle.Width(width - 4)
	}

	keyLabels := make([]string, len(selection.keys))
	for index, key := range selection.keys {
		if index == selection.keyIndex {
			keyLabels[index] = activeStyle.Render(string(key))
		} else {
			keyLabels[index] = inactiveStyle.Render(string(key))
		}
	}

	body := []string{
		titleStyle.Render("Filter by " + filterbar.FormatGroup(selection.group)),
		strings.Join(keyLabels, "  "),
		selection.input.View(),
	}
	if selection.err != "" {
		body = append(body, errorStyle.Render(selection.err))
	}
	body = append(body, inactiveStyle.Render("Tab next field  ⏎ apply  Esc cancel"))

	return strings.Split(boxStyle.Render(strings.Join(body, "\n")), "\n")
}
