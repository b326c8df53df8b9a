package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/prompt"
	"github.com/matzehuels/housesketch/pkg/site"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// FeaturePickerModel - Interactive feature selection
// =============================================================================

// FeaturePickerModel is the bubbletea model for choosing lot features.
type FeaturePickerModel struct {
	Features  []site.Feature
	Checked   map[site.Feature]bool
	Cursor    int
	Confirmed bool
}

// NewFeaturePickerModel creates a picker with the given features
// preselected. Unknown tags are ignored.
func NewFeaturePickerModel(preselected []string) FeaturePickerModel {
	m := FeaturePickerModel{
		Features: append([]site.Feature(nil), site.AllFeatures...),
		Checked:  make(map[site.Feature]bool),
	}
	for _, tag := range preselected {
		if f := site.Feature(site.NormalizeTag(tag)); f.Valid() {
			m.Checked[f] = true
		}
	}
	return m
}

func (m FeaturePickerModel) Init() tea.Cmd {
	return nil
}

func (m FeaturePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Features)-1 {
			m.Cursor++
		}
	case " ", "space", "x":
		f := m.Features[m.Cursor]
		m.Checked[f] = !m.Checked[f]
	case "a":
		all := len(m.Selected()) < len(m.Features)
		for _, f := range m.Features {
			m.Checked[f] = all
		}
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

// Selected returns the checked feature tags in catalogue order.
func (m FeaturePickerModel) Selected() []string {
	var out []string
	for _, f := range m.Features {
		if m.Checked[f] {
			out = append(out, string(f))
		}
	}
	return out
}

func (m FeaturePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Lot Features"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Features))
	for i, f := range m.Features {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[f] {
			box = "[x]"
		}
		rows[i] = []string{cursor, box, prompt.FeatureLabels(site.NewFeatureSet(f))[0], string(f)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Feature", "Tag").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Foreground(colorDim)
			}
			if row >= len(m.Features) {
				return base
			}
			checked := m.Checked[m.Features[row]]
			switch {
			case row == m.Cursor && checked:
				return base.Foreground(colorGreen).Bold(true)
			case row == m.Cursor:
				return base.Bold(true)
			case checked:
				return base.Foreground(colorGreen)
			default:
				return base
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected", len(m.Selected()))))

	return b.String()
}

// pickFeatures runs the picker and returns the chosen tags.
func pickFeatures(preselected []string) ([]string, error) {
	final, err := tea.NewProgram(NewFeaturePickerModel(preselected)).Run()
	if err != nil {
		return nil, fmt.Errorf("feature picker: %w", err)
	}
	m := final.(FeaturePickerModel)
	if !m.Confirmed {
		return nil, herrors.New(herrors.ErrCodeInvalidInput, "feature selection cancelled")
	}
	return m.Selected(), nil
}
