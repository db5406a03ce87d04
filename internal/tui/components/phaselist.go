// Package components holds the reusable view pieces of the progress TUI.
package components

import "github.com/secrethub/ansible-secrethub/internal/installer"

// PhaseStatus is the rendering state of one phase.
type PhaseStatus string

const (
	PhaseRunning PhaseStatus = "running"
	PhaseDone    PhaseStatus = "done"
	PhaseFailed  PhaseStatus = "failed"
)

var phaseLabels = map[installer.Phase]string{
	installer.PhaseResolve:  "resolving version",
	installer.PhaseDownload: "downloading artifact",
	installer.PhaseVerify:   "verifying checksum",
	installer.PhaseInstall:  "installing binary",
	installer.PhaseRemove:   "removing binary",
}

// PhaseEntry represents a single phase for rendering.
type PhaseEntry struct {
	Label  string
	Status PhaseStatus
}

// PhaseList renders the phases of a convergence run in order.
type PhaseList struct {
	entries []PhaseEntry
}

// NewPhaseList constructs a phase list component. Phases before the current
// one have completed; the current phase is running until the run finishes,
// and carries the failure when it does not.
func NewPhaseList(order []installer.Phase, current installer.Phase, finished, failed bool) PhaseList {
	entries := make([]PhaseEntry, 0, len(order))
	for _, phase := range order {
		status := PhaseDone
		if phase == current && !finished {
			status = PhaseRunning
		}
		if phase == current && finished && failed {
			status = PhaseFailed
		}
		entries = append(entries, PhaseEntry{Label: Label(phase), Status: status})
	}
	return PhaseList{entries: entries}
}

// Entries returns the ordered phase entries.
func (l PhaseList) Entries() []PhaseEntry {
	clone := make([]PhaseEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}

// Label returns the human-readable name of a phase.
func Label(phase installer.Phase) string {
	if label, ok := phaseLabels[phase]; ok {
		return label
	}
	return string(phase)
}
