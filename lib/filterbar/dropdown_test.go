// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package filterbar

import (
	"testing"

	"github.com/lumen-analytics/lumen/lib/query"
)

func TestContentPickerWithoutFilters(t *testing.T) {
	bar := New(query.New("7d"), &recordingNavigator{})
	menu := Content(bar, Dropdown{Open: true})
	if menu.Mode != ModePicker {
		t.Fatalf("Mode = %v, want picker", menu.Mode)
	}
	if len(menu.Items) != len(Groups) {
		t.Fatalf("got %d items, want %d", len(menu.Items), len(Groups))
	}
	if menu.Items[2].Label.String() != "UTM tags" {
		t.Errorf("items[2] = %q, want UTM tags", menu.Items[2].Label.String())
	}
}

func TestContentListWithFilters(t *testing.T) {
	current := query.New("7d").
		With(query.KeySource, query.Scalar("Google")).
		With(query.KeyCountry, query.Scalar("FRA"))
	bar := New(current, &recordingNavigator{})

	menu := Content(bar, Dropdown{Open: true})
	if menu.Mode != ModeList {
		t.Fatalf("Mode = %v, want list", menu.Mode)
	}
	want := []string{"+ Add filter", "Source: Google", "Country: France", "Clear All Filters"}
	if len(menu.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(menu.Items), len(want))
	}
	for index, label := range want {
		if got := menu.Items[index].Label.String(); got != label {
			t.Errorf("items[%d] = %q, want %q", index, got, label)
		}
	}

	adding := Content(bar, Dropdown{Open: true, Adding: true})
	if adding.Mode != ModePicker {
		t.Errorf("adding mode should show the picker, got %v", adding.Mode)
	}
}

func TestActivate(t *testing.T) {
	current := query.New("7d").
		With(query.KeyGoal, query.Scalar("Signup")).
		With(query.KeyProps, query.Prop("plan", "pro"))

	t.Run("add switches to picker", func(t *testing.T) {
		navigator := &recordingNavigator{}
		dropdown := Dropdown{Open: true}
		bar := New(current, navigator)
		dropdown.Activate(bar, Content(bar, dropdown).Items[0])
		if !dropdown.Open || !dropdown.Adding {
			t.Errorf("dropdown = %+v, want open and adding", dropdown)
		}
		if len(navigator.queries) != 0 {
			t.Error("adding must not navigate")
		}
	})

	t.Run("remove goal row", func(t *testing.T) {
		navigator := &recordingNavigator{}
		dropdown := Dropdown{Open: true}
		bar := New(current, navigator)
		dropdown.Activate(bar, Content(bar, dropdown).Items[1])
		if dropdown.Open {
			t.Error("dropdown should close after removing")
		}
		if navigator.last(t).ActiveCount() != 0 {
			t.Error("removing the goal row should clear goal and props")
		}
	})

	t.Run("clear all", func(t *testing.T) {
		navigator := &recordingNavigator{}
		dropdown := Dropdown{Open: true}
		bar := New(current, navigator)
		items := Content(bar, dropdown).Items
		dropdown.Activate(bar, items[len(items)-1])
		if navigator.last(t).ActiveCount() != 0 {
			t.Error("clear all should clear every filter")
		}
	})

	t.Run("pick group", func(t *testing.T) {
		navigator := &recordingNavigator{}
		dropdown := Dropdown{Open: true, Adding: true}
		bar := New(current, navigator)
		dropdown.Activate(bar, Content(bar, dropdown).Items[0])
		if len(navigator.groups) != 1 || navigator.groups[0] != GroupPage {
			t.Errorf("groups = %v, want [page]", navigator.groups)
		}
		if dropdown.Open || dropdown.Adding {
			t.Errorf("dropdown = %+v, want closed", dropdown)
		}
	})
}

func TestToggleLeavesAddingMode(t *testing.T) {
	dropdown := Dropdown{Open: true, Adding: true}
	dropdown.Toggle()
	if dropdown.Open || dropdown.Adding {
		t.Errorf("dropdown = %+v, want closed", dropdown)
	}
	dropdown.Toggle()
	if !dropdown.Open || dropdown.Adding {
		t.Errorf("dropdown = %+v, want open without adding", dropdown)
	}
}

func TestGroupKeys(t *testing.T) {
	for _, group := range Groups {
		if len(group.Keys()) == 0 {
			t.Errorf("group %s has no keys", group)
		}
		parsed, ok := ParseGroup(string(group))
		if !ok || parsed != group {
			t.Errorf("ParseGroup(%q) = (%q, %v)", group, parsed, ok)
		}
	}
	if _, ok := ParseGroup("weather"); ok {
		t.Error("ParseGroup should reject unknown groups")
	}
}
