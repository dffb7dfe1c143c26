package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func press(m ConfirmModel, keys ...tea.KeyMsg) ConfirmModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ConfirmModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirm_DefaultsToNo(t *testing.T) {
	m := press(NewConfirm("Push 2 repositories?"), tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.IsDone())
	require.False(t, m.IsConfirmed())
}

func TestConfirm_NavigateAndAccept(t *testing.T) {
	m := press(NewConfirm("Push?"), tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.IsConfirmed())
}

func TestConfirm_QuickKeys(t *testing.T) {
	require.True(t, press(NewConfirm("Push?"), runes("y")).IsConfirmed())

	m := press(NewConfirm("Push?"), runes("n"))
	require.True(t, m.IsDone())
	require.False(t, m.IsConfirmed())

	m = press(NewConfirm("Push?"), tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.IsDone())
	require.False(t, m.IsConfirmed())
}

func TestConfirm_View(t *testing.T) {
	m := NewConfirm("Push these repositories?", "/r/github.com/a/one", "/r/github.com/a/two")
	view := m.View()
	require.Contains(t, view, "Push these repositories?")
	require.Contains(t, view, "/r/github.com/a/two")
	require.Contains(t, view, "No")

	m = press(m, runes("y"))
	require.Empty(t, m.View())
}
