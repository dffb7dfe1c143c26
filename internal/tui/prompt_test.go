package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticPrompter(t *testing.T) {
	p := &StaticPrompter{Answer: true}

	ok, err := p.Confirm("Push?", []string{"/r/a"})
	require.NoError(t, err)
	require.True(t, ok)

	all, err := p.SelectFolders("Sync", []string{"/r/a", "/r/b"})
	require.NoError(t, err)
	require.Equal(t, []string{"/r/a", "/r/b"}, all)

	p.Pick = func(f string) bool { return strings.HasSuffix(f, "b") }
	some, err := p.SelectFolders("Sync", []string{"/r/a", "/r/b"})
	require.NoError(t, err)
	require.Equal(t, []string{"/r/b"}, some)

	require.Equal(t, []string{"Push?", "Sync", "Sync"}, p.Asked)
}

func TestNewFolderSelect(t *testing.T) {
	var selected []string
	form := NewFolderSelect("Sync settings", []string{"/r/a"}, &selected)
	require.NotNil(t, form)
}
