// Package tui renders convergence progress for the development runner. The
// module binaries never use it; their stdout belongs to Ansible.
package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/secrethub/ansible-secrethub/internal/installer"
)

// PhaseMsg reports that the installer entered a phase.
type PhaseMsg struct {
	Phase installer.Phase
}

// DoneMsg reports that the convergence run finished.
type DoneMsg struct {
	Err     error
	Message string
}

// Model contains the Bubbletea state for one convergence run.
type Model struct {
	title    string
	expected int

	spinner spinner.Model
	bar     progress.Model

	order     []installer.Phase
	current   installer.Phase
	message   string
	err       error
	finished  bool
	cancelled bool
}

// NewModel constructs a progress model. The expected count sizes the
// progress bar; a run that converges early still renders as complete.
func NewModel(title string, expected int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 24

	return Model{title: title, expected: expected, spinner: s, bar: bar}
}

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Finished reports whether the run completed.
func (m Model) Finished() bool {
	return m.finished
}

// Cancelled reports whether the user interrupted the run.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Err returns the failure the run finished with, if any.
func (m Model) Err() error {
	return m.err
}

func (m *Model) enterPhase(p installer.Phase) {
	for _, known := range m.order {
		if known == p {
			m.current = p
			return
		}
	}
	m.order = append(m.order, p)
	m.current = p
}

// completedPhases counts the phases that have finished. The current phase
// counts once the run is over and did not fail in it.
func (m Model) completedPhases() int {
	if m.finished && m.err == nil && !m.cancelled {
		return m.expected
	}
	if len(m.order) == 0 {
		return 0
	}
	return len(m.order) - 1
}
