package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Result is the outcome of a command that ran to completion.
type Result struct {
	Command  Command
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Output returns stdout for a successful run and stderr otherwise.
func (r Result) Output() []byte {
	if r.ExitCode == 0 {
		return r.Stdout
	}
	return r.Stderr
}

// Runner executes commands. A non-zero exit status is reported in Result,
// not as an error; errors mean the command could not run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// OSRunner runs commands as child processes.
type OSRunner struct{}

func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Args) == 0 {
		return Result{}, errors.New("empty command")
	}

	execCmd := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	execCmd.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Environ()...)
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	err := execCmd.Run()
	res := Result{Command: cmd, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to run %s: %w", cmd.Args[0], err)
	}
	return res, nil
}

// MockRunner records commands and answers from canned responses.
type MockRunner struct {
	mu        sync.Mutex
	calls     []Command
	responses map[string]mockResponse
}

type mockResponse struct {
	result Result
	err    error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{responses: make(map[string]mockResponse)}
}

// Respond sets the result for the command line args (space-joined).
func (m *MockRunner) Respond(args string, res Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[args] = mockResponse{result: res, err: err}
}

func (m *MockRunner) Run(_ context.Context, cmd Command) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, cmd)
	resp, ok := m.responses[strings.Join(cmd.Args, " ")]
	if !ok {
		return Result{Command: cmd}, nil
	}
	resp.result.Command = cmd
	return resp.result, resp.err
}

// Calls returns every command run so far, in call order.
func (m *MockRunner) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Command(nil), m.calls...)
}
