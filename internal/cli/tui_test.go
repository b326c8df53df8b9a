package cli

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keys(m FeaturePickerModel, ks ...string) FeaturePickerModel {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(FeaturePickerModel)
	}
	return m
}

func TestFeaturePickerPreselected(t *testing.T) {
	m := NewFeaturePickerModel([]string{"Parking", "garden", "moat"})
	if got, want := m.Selected(), []string{"garden", "parking"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestFeaturePickerToggle(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"first", []string{"x"}, []string{"garden"}},
		{"second", []string{"down", "x"}, []string{"pool"}},
		{"toggle twice", []string{"x", "x"}, nil},
		{"cursor stays in range", []string{"up", "up", "x"}, []string{"garden"}},
		{"vim keys", []string{"j", "j", "x", "k", "x"}, []string{"pool", "indoor-toilet"}},
		{"all", []string{"a"}, []string{"garden", "pool", "indoor-toilet", "outdoor-toilet", "living-room", "parking", "fence"}},
		{"all then none", []string{"a", "a"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := keys(NewFeaturePickerModel(nil), tt.keys...)
			if got := m.Selected(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Selected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeaturePickerConfirm(t *testing.T) {
	m := keys(NewFeaturePickerModel(nil), "x", "enter")
	if !m.Confirmed {
		t.Error("enter should confirm")
	}

	m = keys(NewFeaturePickerModel(nil), "x", "esc")
	if m.Confirmed {
		t.Error("esc should not confirm")
	}
}

func TestFeaturePickerView(t *testing.T) {
	m := keys(NewFeaturePickerModel([]string{"pool"}), "down")
	view := m.View()
	for _, want := range []string{"Select Lot Features", "Swimming Pool", "[x]", "▸", "1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
