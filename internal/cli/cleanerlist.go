package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/dcc/internal/model"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)
)

type cleanerItem struct {
	cleaner model.Cleaner
}

func (i cleanerItem) Title() string {
	return fmt.Sprintf("#%d %s", i.cleaner.ID, i.cleaner.Name)
}

func (i cleanerItem) Description() string {
	desc := fmt.Sprintf("%s | %s", i.cleaner.Location, strings.Join(i.cleaner.Directories, ", "))

	if text := i.cleaner.DescriptionText(); text != "" {
		desc = fmt.Sprintf("%s | %s", desc, text)
	}

	return desc
}

func (i cleanerItem) FilterValue() string {
	return i.cleaner.Name
}

// CleanerListModel is a filterable picker over cleaner profiles.
type CleanerListModel struct {
	list     list.Model
	selected *model.Cleaner
	quitting bool
}

func (m CleanerListModel) Init() tea.Cmd {
	return nil
}

func (m CleanerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

		return m, nil

	case tea.KeyMsg:
		// let the filter input receive q and esc while typing
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			i, ok := m.list.SelectedItem().(cleanerItem)
			if ok {
				c := i.cleaner.Clone()
				m.selected = &c
			}

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m CleanerListModel) View() string {
	if m.quitting {
		return ""
	}

	return docStyle.Render(m.list.View())
}

// Selected returns the chosen cleaner, or nil when the picker was dismissed.
func (m CleanerListModel) Selected() *model.Cleaner {
	return m.selected
}

func NewCleanerList(title string, cleaners []model.Cleaner) CleanerListModel {
	items := make([]list.Item, len(cleaners))
	for i, c := range cleaners {
		items[i] = cleanerItem{cleaner: c}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title

	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return CleanerListModel{list: l}
}

// PickCleaner runs the picker full screen and returns the chosen cleaner.
func PickCleaner(title string, cleaners []model.Cleaner) (*model.Cleaner, error) {
	p := tea.NewProgram(NewCleanerList(title, cleaners), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running picker: %w", err)
	}

	m, ok := final.(CleanerListModel)
	if !ok {
		return nil, nil
	}

	return m.Selected(), nil
}
