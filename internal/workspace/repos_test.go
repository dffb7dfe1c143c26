package workspace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shah/vscode-team/internal/filesystem"
)

func masterRepoFS() *filesystem.MockFileSystem {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/u/master/team.code-workspace", []byte(`{"folders": []}`))
	fs.AddFile("/home/u/master/libs.deno.code-workspace", []byte(`{"folders": []}`))
	fs.AddFile("/home/u/master/README.md", []byte("# workspaces"))
	fs.AddFile("/home/u/master/nested/other.code-workspace", []byte(`{"folders": []}`))
	fs.AddDir("/home/u/repos")
	return fs
}

func TestGitReposContext_Validate(t *testing.T) {
	fs := masterRepoFS()

	require.NoError(t, GitReposContext{ReposHome: "/home/u/repos"}.Validate(fs))

	err := GitReposContext{ReposHome: "/home/u/missing"}.Validate(fs)
	require.ErrorIs(t, err, ErrUnrecoverable)

	calls := 0
	recovered := GitReposContext{
		ReposHome: "/home/u/missing",
		OnMissing: func() Recovery {
			calls++
			return Recovered
		},
	}
	require.NoError(t, recovered.Validate(fs))
	require.Equal(t, 1, calls)

	refused := GitReposContext{
		ReposHome: "/home/u/missing",
		OnMissing: func() Recovery { return Unrecoverable },
	}
	require.ErrorIs(t, refused.Validate(fs), ErrUnrecoverable)
}

func TestSetupWorkspaces_DryRun(t *testing.T) {
	fs := masterRepoFS()
	var out bytes.Buffer

	err := SetupWorkspaces(fs, &out, SetupOptions{
		MasterRepo: "/home/u/master",
		Repos:      GitReposContext{ReposHome: "/home/u/repos"},
		DryRun:     true,
	})
	require.NoError(t, err)
	require.Equal(t,
		"rm -f /home/u/repos/libs.deno.code-workspace\n"+
			"ln -s /home/u/master/libs.deno.code-workspace /home/u/repos/libs.deno.code-workspace\n"+
			"rm -f /home/u/repos/team.code-workspace\n"+
			"ln -s /home/u/master/team.code-workspace /home/u/repos/team.code-workspace\n",
		out.String())

	_, err = fs.Lstat("/home/u/repos/team.code-workspace")
	require.Error(t, err)
}

func TestSetupWorkspaces_ReplacesExistingLinks(t *testing.T) {
	fs := masterRepoFS()
	fs.AddFile("/home/u/repos/team.code-workspace", []byte("stale"))
	fs.SetCurrentDir("/home/u")
	var out bytes.Buffer

	err := SetupWorkspaces(fs, &out, SetupOptions{
		MasterRepo: "master",
		Repos:      GitReposContext{ReposHome: "/home/u/repos"},
		Verbose:    true,
	})
	require.NoError(t, err)

	files := fs.GetFiles()
	require.Equal(t, "/home/u/master/team.code-workspace", files["/home/u/repos/team.code-workspace"].Link)
	require.Equal(t, "/home/u/master/libs.deno.code-workspace", files["/home/u/repos/libs.deno.code-workspace"].Link)
	require.NotContains(t, files, "/home/u/repos/other.code-workspace")

	data, err := fs.ReadFile("/home/u/repos/team.code-workspace")
	require.NoError(t, err)
	require.JSONEq(t, `{"folders": []}`, string(data))

	require.Contains(t, out.String(), "Setting up master *.code-workspace files into /home/u/repos\n")
	require.Contains(t, out.String(), "Removed /home/u/repos/team.code-workspace\n")
	require.Contains(t, out.String(), "Created symlink /home/u/repos/team.code-workspace -> /home/u/master/team.code-workspace\n")
	require.NotContains(t, out.String(), "Removed /home/u/repos/libs.deno.code-workspace")
}

func TestSetupWorkspaces_UnrecoverableReposHome(t *testing.T) {
	fs := masterRepoFS()
	var out bytes.Buffer

	err := SetupWorkspaces(fs, &out, SetupOptions{
		MasterRepo: "/home/u/master",
		Repos:      GitReposContext{ReposHome: "/nowhere"},
	})
	require.ErrorIs(t, err, ErrUnrecoverable)
	require.Empty(t, out.String())
}

func TestClonePlan(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/r/github.com/shah/uniform-resource")

	folders := []FolderContext{
		{Folder: Folder{Path: "github.com/shah/uniform-resource"}},
		{Folder: Folder{Path: "github.com/shah/vscode-team"}},
		{Folder: Folder{Path: "git.netspective.io/studios/gmail-classify"}},
	}
	plan, err := ClonePlan(fs, "/r", folders)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	require.True(t, plan[0].Exists)
	require.Equal(t, "github.com/shah/uniform-resource", plan[0].Rel)

	require.False(t, plan[1].Exists)
	require.Equal(t, "https://github.com/shah/vscode-team", plan[1].URL)
	require.Equal(t, "/r/github.com/shah/vscode-team", plan[1].Target)

	var out bytes.Buffer
	require.NoError(t, plan[1].EnsureParent(fs, &out, true))
	require.Empty(t, out.String())

	require.NoError(t, plan[2].EnsureParent(fs, &out, true))
	require.Equal(t, "mkdir -p /r/git.netspective.io/studios\n", out.String())
	require.False(t, fs.Exists("/r/git.netspective.io/studios"))

	require.NoError(t, plan[2].EnsureParent(fs, &out, false))
	require.True(t, fs.Exists("/r/git.netspective.io/studios"))
}
