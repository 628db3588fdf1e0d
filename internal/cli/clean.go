package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/dcc/internal/core"
	"github.com/inovacc/dcc/internal/model"
	"github.com/inovacc/dcc/internal/notify"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// CleanFunc performs the clean run the spinner waits on.
type CleanFunc func(ctx context.Context) (*core.CleanResult, error)

// CleanModel shows a spinner while a cleaner runs. ctrl+c cancels the run;
// deletions already finished stay deleted.
type CleanModel struct {
	spinner spinner.Model
	cleaner model.Cleaner
	run     CleanFunc
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	done    bool
	result  *core.CleanResult
	err     error

	// events carries clean.finished notifications; runID is read from them
	events <-chan notify.Event
	runID  string
}

type cleanCompleteMsg struct {
	result *core.CleanResult
	err    error
}

// NewCleanModel creates a new clean model bound to ctx.
func NewCleanModel(ctx context.Context, c model.Cleaner, run CleanFunc) CleanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	ctx, cancel := context.WithCancel(ctx)

	return CleanModel{
		spinner: s,
		cleaner: c,
		run:     run,
		ctx:     ctx,
		cancel:  cancel,
		running: true,
	}
}

// WithEvents returns a copy of m that reads the recorded run id from the
// clean.finished events delivered on events.
func (m CleanModel) WithEvents(events <-chan notify.Event) CleanModel {
	m.events = events
	return m
}

// collectEvents drains the events already delivered for this cleaner.
func (m *CleanModel) collectEvents() {
	for {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return
			}

			if ev.Type == notify.EventCleanFinished && ev.CleanerID == m.cleaner.ID {
				m.runID = ev.Extra["run"]
			}
		default:
			return
		}
	}
}

func (m CleanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.clean)
}

func (m CleanModel) clean() tea.Msg {
	result, err := m.run(m.ctx)

	return cleanCompleteMsg{result: result, err: err}
}

func (m CleanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// wait for the run to report back with what it completed
			m.cancel()
			return m, nil
		}

		if m.done {
			return m, tea.Quit
		}

	case cleanCompleteMsg:
		m.running = false
		m.done = true
		m.result = msg.result
		m.err = msg.err
		m.cancel()
		m.collectEvents()

		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m CleanModel) View() string {
	if m.done {
		return m.summary()
	}

	if m.running {
		return fmt.Sprintf("\n  %s Cleaning %s\n  %s\n\n", m.spinner.View(), nameStyle.Render(m.cleaner.Name), pathStyle.Render("→ "+m.cleaner.Location))
	}

	return ""
}

func (m CleanModel) summary() string {
	out := m.outcome()
	if m.runID != "" {
		out += pathStyle.Render("  run "+m.runID) + "\n\n"
	}

	return out
}

func (m CleanModel) outcome() string {
	var removed, failed int
	if m.result != nil && m.result.Run != nil {
		removed = len(m.result.Run.Removed)
		failed = len(m.result.Run.Failed)
	}

	switch {
	case m.err != nil && core.IsWarning(m.err):
		return warningStyle.Render(fmt.Sprintf("\n  ! Removed %d directories, %d left behind\n\n", removed, failed))
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("\n  ✗ Clean failed: %v\n\n", m.err))
	case m.result != nil && m.result.Run != nil && m.result.Run.NothingFound():
		return successStyle.Render("\n  ✓ Nothing to clean\n\n")
	default:
		return successStyle.Render(fmt.Sprintf("\n  ✓ Removed %d directories\n\n", removed))
	}
}

// Result returns what the run reported.
func (m CleanModel) Result() (*core.CleanResult, error) {
	return m.result, m.err
}

// RunClean shows the spinner until run returns. When d is not nil the
// summary names the recorded run, taken from its clean.finished event.
func RunClean(ctx context.Context, c model.Cleaner, run CleanFunc, d *notify.Dispatcher) (*core.CleanResult, error) {
	m := NewCleanModel(ctx, c, run)

	if d != nil {
		sub := d.Subscribe(4, notify.EventCleanFinished)
		defer sub.Close()

		m = m.WithEvents(sub.Events())
	}

	p := tea.NewProgram(m)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running clean: %w", err)
	}

	m, ok := final.(CleanModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}

	return m.Result()
}
