package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/secrethub/ansible-secrethub/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("SecretHub • %s", m.title)))
	sections = append(sections, m.renderProgress())

	entries := components.NewPhaseList(m.order, m.current, m.finished, m.err != nil).Entries()
	for _, entry := range entries {
		sections = append(sections, fmt.Sprintf(" %s %s", m.statusIcon(entry.Status), entry.Label))
	}

	if m.finished {
		summary := components.NewSummary(components.SummaryData{
			Message:   m.message,
			Err:       m.err,
			Cancelled: m.cancelled,
		}).View()
		if summary != "" {
			sections = append(sections, summaryStyle.Render(m.summaryStyleFor().Render(summary)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderProgress() string {
	ratio := 0.0
	if m.expected > 0 {
		ratio = math.Min(1.0, float64(m.completedPhases())/float64(m.expected))
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d", m.completedPhases(), m.expected))
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", m.bar.ViewAs(ratio))
}

func (m Model) statusIcon(status components.PhaseStatus) string {
	switch status {
	case components.PhaseDone:
		return successStyle.Render("✓")
	case components.PhaseFailed:
		return failureStyle.Render("✗")
	case components.PhaseRunning:
		return m.spinner.View()
	default:
		return pendingStyle.Render("…")
	}
}

func (m Model) summaryStyleFor() lipgloss.Style {
	if m.err != nil || m.cancelled {
		return failureStyle
	}
	return successStyle
}
