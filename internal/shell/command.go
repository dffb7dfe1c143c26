// Package shell runs external tools (git, npm, deno, udd) for one or many
// project folders, with a dry-run mode that prints instead of executing.
package shell

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Command is one process invocation.
type Command struct {
	Dir  string
	Args []string
	Env  map[string]string
}

// New builds a command from already separated arguments.
func New(dir string, args ...string) Command {
	return Command{Dir: dir, Args: args}
}

// Parse splits cmdline into a command run in dir.
func Parse(dir, cmdline string) (Command, error) {
	args, err := Split(cmdline)
	if err != nil {
		return Command{}, err
	}
	return Command{Dir: dir, Args: args}, nil
}

// Split breaks a command line into words, honouring shell quoting. Parameter
// references such as $HOME are kept literally. Anything beyond a single
// simple command (pipes, redirects, substitutions) is rejected.
func Split(cmdline string) ([]string, error) {
	f, err := syntax.NewParser().Parse(strings.NewReader(cmdline), "")
	if err != nil {
		return nil, fmt.Errorf("failed to split %q: %w", cmdline, err)
	}
	if len(f.Stmts) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	if len(f.Stmts) > 1 {
		return nil, fmt.Errorf("failed to split %q: more than one command", cmdline)
	}
	stmt := f.Stmts[0]
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(stmt.Redirs) > 0 || len(call.Assigns) > 0 || stmt.Background || stmt.Negated {
		return nil, fmt.Errorf("failed to split %q: not a simple command", cmdline)
	}

	fields := make([]string, 0, len(call.Args))
	for _, word := range call.Args {
		literalParams(cmdline, word.Parts)
		field, err := expand.Literal(nil, word)
		if err != nil {
			return nil, fmt.Errorf("failed to split %q: %w", cmdline, err)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// literalParams replaces parameter expansions with their source text.
func literalParams(src string, parts []syntax.WordPart) {
	for i, part := range parts {
		switch part := part.(type) {
		case *syntax.ParamExp:
			parts[i] = &syntax.Lit{
				ValuePos: part.Pos(),
				ValueEnd: part.End(),
				Value:    src[part.Pos().Offset():part.End().Offset()],
			}
		case *syntax.DblQuoted:
			literalParams(src, part.Parts)
		}
	}
}

// WithEnv returns a copy of c with key=value added to its environment.
func (c Command) WithEnv(key, value string) Command {
	env := make(map[string]string, len(c.Env)+1)
	for k, v := range c.Env {
		env[k] = v
	}
	env[key] = value
	c.Env = env
	return c
}

// Environ renders Env as sorted KEY=value pairs.
func (c Command) Environ() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}

var plainArg = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// String renders the arguments as a shell would need them typed.
func (c Command) String() string {
	quoted := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		if plainArg.MatchString(arg) {
			quoted = append(quoted, arg)
			continue
		}
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = arg
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}
