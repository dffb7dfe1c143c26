package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shah/vscode-team/internal/tui"
)

// ConfirmModel is a yes/no question with an optional list of affected items
// shown above the choices.
type ConfirmModel struct {
	message   string
	items     []string
	cursor    int
	confirmed bool
	done      bool
}

// NewConfirm creates a new confirmation component. The cursor starts on No.
func NewConfirm(message string, items ...string) ConfirmModel {
	return ConfirmModel{
		message: message,
		items:   items,
		cursor:  1,
	}
}

// Init initializes the component
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.cursor = 0
		case "right", "l":
			m.cursor = 1
		case "enter", " ":
			m.confirmed = m.cursor == 0
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n", "N", "ctrl+c", "esc", "q":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the component
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(m.message))
	b.WriteString("\n")
	for _, item := range m.items {
		b.WriteString(tui.SubtleStyle.Render("  " + item))
		b.WriteString("\n")
	}
	if len(m.items) > 0 {
		b.WriteString("\n")
	}

	yes := "Yes"
	no := "No"

	if m.cursor == 0 {
		yes = tui.SelectedStyle.Render("> " + yes)
	} else {
		yes = "  " + yes
	}

	if m.cursor == 1 {
		no = tui.SelectedStyle.Render("> " + no)
	} else {
		no = "  " + no
	}

	fmt.Fprintf(&b, "%s  %s\n%s", yes, no,
		tui.HelpStyle.Render("←→ navigate • enter confirm • y/n quick select"))
	return b.String()
}

// IsConfirmed returns whether the user confirmed
func (m ConfirmModel) IsConfirmed() bool {
	return m.confirmed
}

// IsDone returns whether the user finished
func (m ConfirmModel) IsDone() bool {
	return m.done
}
