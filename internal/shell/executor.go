package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Handler reports a finished command to w.
type Handler func(w io.Writer, res Result)

// Handlers select what is printed for each outcome. A nil handler writes the
// raw output.
type Handlers struct {
	OnSuccess Handler
	OnFailure Handler
}

// ExitError is returned by Executor.Run for a non-zero exit status.
type ExitError struct {
	Command Command
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Executor runs commands through a Runner, or only prints them in dry-run
// mode. It is safe for concurrent use; each report is written in one piece.
type Executor struct {
	Runner Runner
	DryRun bool
	Out    io.Writer
	ErrOut io.Writer

	mu sync.Mutex
}

// NewExecutor builds an executor writing to stdout and stderr.
func NewExecutor(runner Runner, dryRun bool) *Executor {
	return &Executor{Runner: runner, DryRun: dryRun, Out: os.Stdout, ErrOut: os.Stderr}
}

// Run executes cmd, or prints "cd <dir>", the environment and the command
// line when DryRun is set.
func (e *Executor) Run(ctx context.Context, cmd Command, h Handlers) error {
	if e.DryRun {
		var b strings.Builder
		if cmd.Dir != "" {
			fmt.Fprintf(&b, "cd %s\n", cmd.Dir)
		}
		for _, kv := range cmd.Environ() {
			fmt.Fprintln(&b, kv)
		}
		fmt.Fprintln(&b, cmd.String())
		e.write(e.Out, b.String())
		return nil
	}

	res, err := e.Runner.Run(ctx, cmd)
	if err != nil {
		return err
	}

	if res.ExitCode == 0 {
		e.report(e.Out, h.OnSuccess, res)
		return nil
	}
	e.report(e.ErrOut, h.OnFailure, res)
	return &ExitError{Command: cmd, Code: res.ExitCode}
}

func (e *Executor) report(w io.Writer, h Handler, res Result) {
	var buf bytes.Buffer
	if h == nil {
		buf.Write(res.Output())
	} else {
		h(&buf, res)
	}
	e.write(w, buf.String())
}

func (e *Executor) write(w io.Writer, s string) {
	if s == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = io.WriteString(w, s)
}

// BlockReporter prints heading, then the output, then a blank line when
// there was any output.
func BlockReporter(heading string) Handler {
	return func(w io.Writer, res Result) {
		fmt.Fprintln(w, heading)
		out := res.Output()
		_, _ = w.Write(out)
		if strings.TrimSpace(string(out)) != "" {
			if !bytes.HasSuffix(out, []byte("\n")) {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w)
		}
	}
}

// Quiet discards the output.
func Quiet(io.Writer, Result) {}
