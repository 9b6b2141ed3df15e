// Package modelpicker provides an interactive terminal picker for choosing
// a root model when a project contains several.
package modelpicker

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

// ErrCancelled is returned when the user aborts the picker.
var ErrCancelled = errors.New("model selection cancelled")

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))

// item adapts a domain.ModelChoice to the bubbles list.
type item struct {
	choice domain.ModelChoice
}

func (i item) Title() string { return i.choice.Name }

func (i item) Description() string {
	if i.choice.Type == "" {
		return i.choice.ID
	}
	return fmt.Sprintf("%s (%s)", i.choice.Type, i.choice.ID)
}

func (i item) FilterValue() string { return i.choice.Name }

// Model is the picker's bubbletea model.
type Model struct {
	list      list.Model
	choice    *domain.ModelChoice
	cancelled bool
}

// New builds a picker over the given choices.
func New(title string, choices []domain.ModelChoice) Model {
	items := make([]list.Item, len(choices))
	for i, c := range choices {
		items[i] = item{choice: c}
	}

	l := list.New(items, list.NewDefaultDelegate(), 60, 14)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{list: l}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				choice := it.choice
				m.choice = &choice
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	return m.list.View()
}

// Choice returns the selected model, or nil when nothing was chosen.
func (m Model) Choice() *domain.ModelChoice {
	return m.choice
}

// Pick runs the picker and returns the chosen entry.
// Returns ErrCancelled when the user quits without choosing.
func Pick(title string, choices []domain.ModelChoice) (*domain.ModelChoice, error) {
	if len(choices) == 0 {
		return nil, errors.New("nothing to choose from")
	}

	final, err := tea.NewProgram(New(title, choices)).Run()
	if err != nil {
		return nil, fmt.Errorf("running model picker: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.choice == nil {
		return nil, ErrCancelled
	}
	return m.choice, nil
}
