package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/secrethub/ansible-secrethub/internal/installer"
)

func applyMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

func TestUpdatePhaseMsgAdvancesCurrentPhase(t *testing.T) {
	t.Parallel()

	m := NewModel("install", 4)
	m, _ = applyMsg(t, m, PhaseMsg{Phase: installer.PhaseResolve})
	m, _ = applyMsg(t, m, PhaseMsg{Phase: installer.PhaseDownload})

	require.Equal(t, installer.PhaseDownload, m.current)
	require.Len(t, m.order, 2)
	require.False(t, m.Finished())
}

func TestUpdateDoneMsgFinishesAndQuits(t *testing.T) {
	t.Parallel()

	m := NewModel("install", 4)
	m, _ = applyMsg(t, m, PhaseMsg{Phase: installer.PhaseResolve})

	m, cmd := applyMsg(t, m, DoneMsg{Message: "installed version 0.44.0"})

	require.True(t, m.Finished())
	require.NoError(t, m.Err())
	require.Equal(t, "installed version 0.44.0", m.message)
	require.NotNil(t, cmd)
}

func TestUpdateDoneMsgCarriesError(t *testing.T) {
	t.Parallel()

	m := NewModel("install", 4)
	m, _ = applyMsg(t, m, DoneMsg{Err: errBoom})

	require.True(t, m.Finished())
	require.ErrorIs(t, m.Err(), errBoom)
}

func TestUpdateCtrlCCancels(t *testing.T) {
	t.Parallel()

	m := NewModel("install", 4)
	m, cmd := applyMsg(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.True(t, m.Cancelled())
	require.True(t, m.Finished())
	require.NotNil(t, cmd)
}
