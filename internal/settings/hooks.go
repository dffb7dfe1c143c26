package settings

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ShellScript is the full text of an executable hook script.
type ShellScript string

// HookData feeds PreCommitTemplate.
type HookData struct {
	Shell    string
	Commands []string
}

// PreCommitTemplate renders a hook that stops at the first failing command.
const PreCommitTemplate = `#!{{ .Shell | default "/bin/sh" }}
{{ .Commands | join " && " }}
`

// RenderPreCommit executes tmpl against data with the sprig functions available.
func RenderPreCommit(tmpl string, data HookData) (ShellScript, error) {
	t, err := template.New("pre-commit").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse hook template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render hook template: %w", err)
	}
	return ShellScript(buf.String()), nil
}

func mustRender(data HookData) ShellScript {
	s, err := RenderPreCommit(PreCommitTemplate, data)
	if err != nil {
		panic(err)
	}
	return s
}

func DenoPreCommit() ShellScript {
	return mustRender(HookData{
		Shell:    "/bin/zsh",
		Commands: []string{"deno lint --unstable", "deno fmt --check"},
	})
}

func PythonPreCommit() ShellScript {
	return mustRender(HookData{
		Commands: []string{`find . -type f -name "*.py" | xargs pylint`},
	})
}

func NodePreCommit() ShellScript {
	return mustRender(HookData{
		Commands: []string{"npx eslint . --ext .ts", "npx tsc --noEmit"},
	})
}
