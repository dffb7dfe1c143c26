package git

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkTreeCommands(t *testing.T) {
	wt := WorkTree{Path: "/r/app", GitDir: "/r/app/.git"}
	prefix := []string{"git", "--git-dir=/r/app/.git", "--work-tree=/r/app"}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"status", wt.Status().Args, append(prefix, "status", "-s")},
		{"fetch", wt.Fetch(false).Args, append(prefix, "fetch")},
		{"fetch dry run", wt.Fetch(true).Args, append(prefix, "fetch", "--dry-run")},
		{"add", wt.AddAll(true).Args, append(prefix, "add", "--dry-run", ".")},
		{"commit", wt.Commit("fix things", false).Args, append(prefix, "commit", "-am", "fix things")},
		{"commit dry run", wt.Commit("m", true).Args, append(prefix, "commit", "--dry-run", "-am", "m")},
		{"push", wt.Push(false).Args, append(prefix, "push")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.got)
		})
	}
}

func TestWorkTreePull(t *testing.T) {
	wt := WorkTree{Path: "/r/app", GitDir: "/r/app/.git"}

	cmds := wt.Pull(false, false)
	require.Len(t, cmds, 1)
	require.Equal(t, []string{"git", "--git-dir=/r/app/.git", "--work-tree=/r/app", "pull"}, cmds[0].Args)

	cmds = wt.Pull(true, false)
	require.Len(t, cmds, 2)
	require.Equal(t, "git --git-dir=/r/app/.git --work-tree=/r/app submodule update --recursive", cmds[1].String())

	cmds = wt.Pull(true, true)
	require.Len(t, cmds, 1)
	require.Contains(t, cmds[0].Args, "--dry-run")
}

func TestClone(t *testing.T) {
	require.Equal(t, "https://github.com/shah/uniform-resource", CloneURL("github.com/shah/uniform-resource"))

	cmd := Clone("https://github.com/a/b", "/repos/github.com/a/b", true)
	require.Equal(t, []string{"git", "clone", "--quiet", "--recurse-submodules", "https://github.com/a/b", "/repos/github.com/a/b"}, cmd.Args)
}

func TestSemtag(t *testing.T) {
	require.Equal(t, []string{"git-semtag", "getfinal"}, SemtagGetFinal("/p").Args)
	require.Equal(t, []string{"git-semtag", "final"}, SemtagFinal("/p", "", false).Args)
	require.Equal(t, []string{"git-semtag", "final", "-v", "v1.2.3", "-o"}, SemtagFinal("/p", "v1.2.3", true).Args)
}

func TestValidateVersion(t *testing.T) {
	require.NoError(t, ValidateVersion("v1.2.3"))
	require.NoError(t, ValidateVersion("1.2.3"))
	require.NoError(t, ValidateVersion("v2.0.0-rc.1"))
	require.Error(t, ValidateVersion("latest"))
	require.Error(t, ValidateVersion(""))
}
