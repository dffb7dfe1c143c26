package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/config"
	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/github"
	"github.com/shah/vscode-team/internal/logging"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/tui"
)

type testEnv struct {
	fs     *filesystem.MockFileSystem
	runner *shell.MockRunner
	gh     *github.MockClient
	prompt *tui.StaticPrompter
	cfg    config.Config

	out    bytes.Buffer
	errOut bytes.Buffer
}

func newTestEnv(fs *filesystem.MockFileSystem) *testEnv {
	if fs == nil {
		fs = filesystem.NewMockFileSystem()
	}
	return &testEnv{
		fs:     fs,
		runner: shell.NewMockRunner(),
		gh:     github.NewMockClient(),
		prompt: &tui.StaticPrompter{},
		cfg:    config.DefaultConfig(),
	}
}

func (e *testEnv) deps() Deps {
	return Deps{
		FS:       e.fs,
		Runner:   e.runner,
		GitHub:   e.gh,
		Prompter: e.prompt,
		Config:   &e.cfg,
		Out:      &e.out,
		ErrOut:   &e.errOut,
		Logger:   logging.Discard(),
	}
}

func (e *testEnv) run(t *testing.T, newRoot func(Deps) *cobra.Command, args ...string) error {
	t.Helper()
	root := newRoot(e.deps())
	root.SetArgs(args)
	root.SetOut(&e.out)
	root.SetErr(&e.errOut)
	return root.ExecuteContext(context.Background())
}

func (e *testEnv) calls() [][]string {
	var out [][]string
	for _, c := range e.runner.Calls() {
		out = append(out, c.Args)
	}
	return out
}

func shellFailure(stderr string) shell.Result {
	return shell.Result{ExitCode: 1, Stderr: []byte(stderr)}
}
