package ui

import (
	"reflect"
	"testing"

	"github.com/timvw/tmuxedo/internal/model"
)

func hintDescs(k KeyMap, s Snapshot) []string {
	var out []string
	for _, b := range k.Bindings(s) {
		out = append(out, b.Help().Desc)
	}
	return out
}

func TestBindings(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		name string
		s    Snapshot
		want []string
	}{
		{
			name: "search mode",
			s:    Snapshot{Mode: ModeSearch, Query: "foo"},
			want: []string{"exit search", "confirm"},
		},
		{
			name: "all tab",
			s:    Snapshot{Tab: model.TabAll},
			want: []string{"quit", "next", "previous", "search", "update", "delete"},
		},
		{
			name: "all tab ignores the toggle flag",
			s:    Snapshot{Tab: model.TabAll, ToggleAvailable: true},
			want: []string{"quit", "next", "previous", "search", "update", "delete"},
		},
		{
			name: "available side",
			s:    Snapshot{Tab: model.TabThemes, ToggleAvailable: true},
			want: []string{"quit", "next", "previous", "search", "toggle installed", "install"},
		},
		{
			name: "installed side",
			s:    Snapshot{Tab: model.TabPlugins},
			want: []string{"quit", "next", "previous", "search", "toggle available", "update", "delete"},
		},
		{
			name: "clear search offered with a query",
			s:    Snapshot{Tab: model.TabStatusBars, Query: "cpu"},
			want: []string{"quit", "next", "previous", "search", "toggle available", "update", "delete", "clear search"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hintDescs(k, tt.s); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Bindings = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotAvailableSide(t *testing.T) {
	if (Snapshot{Tab: model.TabAll, ToggleAvailable: true}).AvailableSide() {
		t.Error("All tab never targets the available list")
	}
	if !(Snapshot{Tab: model.TabThemes, ToggleAvailable: true}).AvailableSide() {
		t.Error("toggled category tab targets the available list")
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("light") != LightTheme() {
		t.Error("light should select LightTheme")
	}
	if ThemeByName("nope") != DarkTheme() {
		t.Error("unknown names fall back to DarkTheme")
	}
}
