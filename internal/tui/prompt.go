package tui

import (
	"github.com/charmbracelet/huh"
)

// Prompter asks the user questions during batch commands.
type Prompter interface {
	// Confirm asks a yes/no question about items.
	Confirm(message string, items []string) (bool, error)
	// SelectFolders lets the user pick a subset of folders. All are
	// preselected. An aborted prompt returns no folders and no error.
	SelectFolders(title string, folders []string) ([]string, error)
}

// NewFolderSelect builds the folder multi-select form writing into selected.
func NewFolderSelect(title string, folders []string, selected *[]string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(folders))
	for _, f := range folders {
		opts = append(opts, huh.NewOption(f, f).Selected(true))
	}

	keyMap := huh.NewDefaultKeyMap()
	keyMap.MultiSelect.Toggle.SetKeys(" ")
	keyMap.MultiSelect.Toggle.SetHelp("space", "toggle selection")
	keyMap.MultiSelect.Submit.SetKeys("enter")
	keyMap.MultiSelect.Submit.SetHelp("enter", "continue")

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Options(opts...).
				Value(selected),
		).
			Title(title).
			Description("Deselect folders to leave them untouched."),
	).
		WithTheme(NewHuhTheme()).
		WithShowHelp(true).
		WithKeyMap(keyMap)
}

// StaticPrompter answers every question without asking, for --yes and tests.
type StaticPrompter struct {
	Answer bool
	// Pick filters folders in SelectFolders; nil keeps them all.
	Pick func(folder string) bool

	Asked []string
}

func (p *StaticPrompter) Confirm(message string, items []string) (bool, error) {
	p.Asked = append(p.Asked, message)
	return p.Answer, nil
}

func (p *StaticPrompter) SelectFolders(title string, folders []string) ([]string, error) {
	p.Asked = append(p.Asked, title)
	if p.Pick == nil {
		return folders, nil
	}
	var out []string
	for _, f := range folders {
		if p.Pick(f) {
			out = append(out, f)
		}
	}
	return out, nil
}
