package components

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/shah/vscode-team/internal/tui"
)

// Terminal implements tui.Prompter with bubbletea and huh programs.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t *Terminal) Confirm(message string, items []string) (bool, error) {
	var opts []tea.ProgramOption
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}

	final, err := tea.NewProgram(NewConfirm(message, items...), opts...).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return false, nil
	}
	return m.IsConfirmed(), nil
}

func (t *Terminal) SelectFolders(title string, folders []string) ([]string, error) {
	selected := make([]string, 0, len(folders))
	form := tui.NewFolderSelect(title, folders, &selected)
	if t.In != nil {
		form = form.WithInput(t.In)
	}
	if t.Out != nil {
		form = form.WithOutput(t.Out)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}
	return selected, nil
}

var _ tui.Prompter = (*Terminal)(nil)
