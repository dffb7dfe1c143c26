package cli

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/github"
	"github.com/shah/vscode-team/internal/workspace"
)

const (
	testWorkspaceRoot = "/ws"
	testWorkspaceFile = "/ws/team.code-workspace"

	denoTemplateSettings   = `{"deno.enable": true, "deno.unstable": true}`
	denoTemplateExtensions = `{"recommendations": ["denoland.vscode-deno"]}`
)

func buildWorkspace(t *testing.T, setup func(*workspace.WorkspaceBuilder)) *filesystem.MockFileSystem {
	t.Helper()

	wb := workspace.NewWorkspaceBuilder(testWorkspaceRoot)
	if setup != nil {
		setup(wb)
	}
	return wb.Build()
}

// twoRepos lists a git work tree /repos/a and a plain folder /repos/b.
func twoRepos(wb *workspace.WorkspaceBuilder) {
	wb.AddFolder("team.code-workspace", "../repos/a").
		AddFolder("team.code-workspace", "../repos/b").
		AddProjectDir("../repos/a/.git").
		AddProjectFile("../repos/a", "package.json", `{"name": "a"}`).
		AddProjectDir("../repos/b")
}

func denoTemplate(ref, path string) github.ContentRef {
	return github.ContentRef{Owner: "shah", Repo: "vscode-team", Ref: ref, Path: path}
}

func addDenoTemplates(env *testEnv, ref string) {
	env.gh.AddContent(denoTemplate(ref, "deno.vscode/settings.json"), []byte(denoTemplateSettings))
	env.gh.AddContent(denoTemplate(ref, "deno.vscode/extensions.json"), []byte(denoTemplateExtensions))
}

func TestWsctl_InspectFolders(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "inspect", "folders", "team.code-workspace")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "team.code-workspace", got[0]["wsFileName"])

	first := got[0]["project"].(map[string]any)
	require.Equal(t, "/repos/a", first["absProjectPath"])
	require.Equal(t, true, first["isGitWorkTree"])
	require.Equal(t, true, first["isNpmProject"])
}

func TestWsctl_InspectFoldersMissingFile(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, nil))

	err := env.run(t, NewWsctlCommand, "vscws", "inspect", "folders", "missing.code-workspace")
	require.NoError(t, err)
	require.Equal(t, "[]\n", env.out.String())
}

func TestWsctl_GitStatusDryRun(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "git", "status", testWorkspaceFile, "--dry-run")
	require.NoError(t, err)

	out := env.out.String()
	require.True(t, strings.HasPrefix(out, "cd /repos/a\n"), out)
	require.Contains(t, out, "status -s\n")
	require.NotContains(t, out, "/repos/b")
	require.Empty(t, env.calls())
}

func TestWsctl_GitFetchPassesDryRunToGit(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "git", "fetch", testWorkspaceFile, "--dry-run")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"git", "--git-dir=/repos/a/.git", "--work-tree=/repos/a", "fetch", "--dry-run"},
	}, env.calls())
}

func TestWsctl_GitPullRecursesIntoSubmodules(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "git", "pull", testWorkspaceFile, "--recurse-submodules")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"git", "--git-dir=/repos/a/.git", "--work-tree=/repos/a", "pull", "--recurse-submodules"},
		{"git", "--git-dir=/repos/a/.git", "--work-tree=/repos/a", "submodule", "update", "--recursive"},
	}, env.calls())
	require.Contains(t, env.out.String(), "/repos/a")
}

func TestWsctl_AddCommitPushDeclined(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))
	env.prompt.Answer = false

	err := env.run(t, NewWsctlCommand, "vscws", "git", "add-commit-push", "wip", testWorkspaceFile)
	require.NoError(t, err)

	require.Equal(t, [][]string{
		{"git", "--git-dir=/repos/a/.git", "--work-tree=/repos/a", "add", "."},
		{"git", "--git-dir=/repos/a/.git", "--work-tree=/repos/a", "commit", "-am", "wip"},
	}, env.calls())
	require.Equal(t, []string{"Push 1 repositories?"}, env.prompt.Asked)
	require.Contains(t, env.out.String(), "Push cancelled.")
}

func TestWsctl_AddCommitPushWithYes(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "git", "add-commit-push", "wip", testWorkspaceFile, "-y")
	require.NoError(t, err)
	require.Empty(t, env.prompt.Asked)

	calls := env.calls()
	require.Len(t, calls, 3)
	require.Equal(t, []string{"git", "--git-dir=/repos/a/.git", "--work-tree=/repos/a", "push"}, calls[2])
}

func TestWsctl_CommitDryRun(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "git", "commit", "msg", testWorkspaceFile, "--dry-run")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"git", "--git-dir=/repos/a/.git", "--work-tree=/repos/a", "commit", "--dry-run", "-am", "msg"},
	}, env.calls())
}

func TestWsctl_CloneDryRun(t *testing.T) {
	fs := buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		wb.AddFolder("team.code-workspace", "github.com/org/app").
			AddFolder("team.code-workspace", "github.com/org/lib")
	})
	fs.AddDir("/repos/github.com/org/lib")
	env := newTestEnv(fs)

	err := env.run(t, NewWsctlCommand, "vscws", "git", "clone", testWorkspaceFile, "/repos", "--dry-run", "--verbose")
	require.NoError(t, err)

	out := env.out.String()
	require.Contains(t, out, "Repo github.com/org/lib already exists in /repos\n")
	require.Contains(t, out, "git clone --quiet https://github.com/org/app /repos/github.com/org/app\n")
	require.NotContains(t, out, "mkdir -p")
	require.Empty(t, env.calls())
}

func TestWsctl_CloneMissingReposHome(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		wb.AddFolder("team.code-workspace", "github.com/org/app")
	}))

	err := env.run(t, NewWsctlCommand, "vscws", "git", "clone", testWorkspaceFile, "/repos")
	require.NoError(t, err)
	require.Equal(t, "/repos does not exist\n", env.errOut.String())
	require.Empty(t, env.calls())
}

func TestWsctl_CloneCreatesReposHome(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		wb.AddFolder("team.code-workspace", "github.com/org/app")
	}))

	err := env.run(t, NewWsctlCommand, "vscws", "git", "clone", testWorkspaceFile, "/repos", "--create-repos-path", "--recurse-submodules")
	require.NoError(t, err)
	require.True(t, env.fs.Exists("/repos/github.com/org"))
	require.Equal(t, [][]string{
		{"git", "clone", "--quiet", "--recurse-submodules", "https://github.com/org/app", "/repos/github.com/org/app"},
	}, env.calls())
}

func TestWsctl_NpmInvalidNodeHome(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "npm", "install", testWorkspaceFile, "--node-home", "/opt/node")
	require.NoError(t, err)
	require.Equal(t, "/opt/node is not a valid NodeJS Path (missing bin/npm)\n", env.errOut.String())
	require.Empty(t, env.calls())
}

func TestWsctl_NpmInstall(t *testing.T) {
	fs := buildWorkspace(t, twoRepos)
	fs.AddFile("/usr/local/bin/node/bin/npm", nil)
	env := newTestEnv(fs)

	err := env.run(t, NewWsctlCommand, "vscws", "npm", "install", testWorkspaceFile)
	require.NoError(t, err)

	calls := env.runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, []string{"npm", "install"}, calls[0].Args)
	require.Equal(t, "/repos/a", calls[0].Dir)
	require.True(t, strings.HasPrefix(calls[0].Env["PATH"], "/usr/local/bin/node/bin:"))
}

func TestWsctl_NpmVersionBump(t *testing.T) {
	fs := buildWorkspace(t, twoRepos)
	fs.AddFile("/opt/node/bin/npm", nil)
	env := newTestEnv(fs)

	err := env.run(t, NewWsctlCommand, "vscws", "npm", "version", "bump", "minor", testWorkspaceFile, "--node-home", "/opt/node", "--no-git-tag-version")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"npm", "--no-git-tag-version", "version", "minor"}}, env.calls())

	err = env.run(t, NewWsctlCommand, "vscws", "npm", "version", "bump", "huge", testWorkspaceFile, "--node-home", "/opt/node")
	require.Error(t, err)
}

func TestWsctl_NpmPublishSkipsPrivatePackages(t *testing.T) {
	fs := buildWorkspace(t, twoRepos)
	fs.AddFile("/opt/node/bin/npm", nil)
	env := newTestEnv(fs)

	err := env.run(t, NewWsctlCommand, "vscws", "npm", "publish", testWorkspaceFile, "--node-home", "/opt/node")
	require.NoError(t, err)
	require.Empty(t, env.calls())
}

func TestWsctl_DenoTasksOnlyRunInDenoFolders(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		twoRepos(wb)
		wb.AddFolder("team.code-workspace", "../repos/d").
			AddProjectFile("../repos/d", ".vscode/settings.json", `{"deno.enable": true}`)
	}))

	err := env.run(t, NewWsctlCommand, "vscws", "deno", "test", testWorkspaceFile)
	require.NoError(t, err)

	calls := env.runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, []string{"deno", "test", "--unstable", "-A"}, calls[0].Args)
	require.Equal(t, "/repos/d", calls[0].Dir)
}

func TestWsctl_DenoWorkspaceNamingConvention(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		wb.AddFolder("libs.deno.code-workspace", "../repos/lib").
			AddProjectFile("../repos/lib", "mod.ts", "")
	}))

	err := env.run(t, NewWsctlCommand, "vscws", "deno", "update", "/ws/libs.deno.code-workspace", "--dry-run")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"udd", "--dry-run", "mod.ts"}}, env.calls())
}

func TestWsctl_FailingFolderFailsCommand(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))
	env.runner.Respond("git --git-dir=/repos/a/.git --work-tree=/repos/a status -s", shellFailure("not a repo\n"), nil)

	err := env.run(t, NewWsctlCommand, "vscws", "git", "status", testWorkspaceFile)
	require.Error(t, err)
	require.Equal(t, "1 of 1 folders failed", err.Error())
	require.Contains(t, env.errOut.String(), "not a repo")
}

func TestWsctl_SetupDryRun(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/master/team.code-workspace", []byte(`{"folders": []}`))
	fs.AddFile("/master/README.md", nil)
	fs.AddDir("/repos")
	env := newTestEnv(fs)

	err := env.run(t, NewWsctlCommand, "setup", "/master", "/repos", "--no-pull", "--dry-run")
	require.NoError(t, err)
	require.Equal(t, "rm -f /repos/team.code-workspace\nln -s /master/team.code-workspace /repos/team.code-workspace\n", env.out.String())
	require.False(t, env.fs.Exists("/repos/team.code-workspace"))
}

func TestWsctl_SetupPullsMasterFirst(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/master/team.code-workspace", []byte(`{"folders": []}`))
	fs.AddDir("/master/.git")
	fs.AddDir("/repos")
	env := newTestEnv(fs)

	err := env.run(t, NewWsctlCommand, "setup", "/master", "/repos")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"git", "--git-dir=/master/.git", "--work-tree=/master", "pull"},
	}, env.calls())

	info, err := env.fs.Lstat("/repos/team.code-workspace")
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestWsctl_SetupMissingReposHome(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/master/team.code-workspace", []byte(`{"folders": []}`))
	env := newTestEnv(fs)

	err := env.run(t, NewWsctlCommand, "setup", "/master", "/repos", "--no-pull")
	require.NoError(t, err)
	require.Equal(t, "/repos does not exist\n", env.errOut.String())
	require.Empty(t, env.out.String())
}

func TestWsctl_SettingsSync(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		twoRepos(wb)
		wb.AddFolder("team.code-workspace", "../repos/d").
			AddProjectFile("../repos/d", ".vscode/settings.json", `{"deno.enable": true}`)
	}))
	addDenoTemplates(env, "master")

	err := env.run(t, NewWsctlCommand, "vscws", "settings", "sync", "deno", testWorkspaceFile)
	require.NoError(t, err)

	data, err := env.fs.ReadFile("/repos/d/.vscode/settings.json")
	require.NoError(t, err)
	require.JSONEq(t, denoTemplateSettings, string(data))
	require.Len(t, env.gh.Downloads(), 2)
	require.False(t, env.fs.Exists("/repos/a/.vscode"))
}

func TestWsctl_SettingsSyncSelectNone(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		wb.AddFolder("team.code-workspace", "../repos/d").
			AddProjectFile("../repos/d", ".vscode/settings.json", `{"deno.enable": true}`)
	}))
	env.prompt.Pick = func(string) bool { return false }

	err := env.run(t, NewWsctlCommand, "vscws", "settings", "sync", "auto", testWorkspaceFile, "--select")
	require.NoError(t, err)
	require.Equal(t, []string{"Sync Deno VS Code settings"}, env.prompt.Asked)
	require.Empty(t, env.gh.Downloads())
}

func TestWsctl_SettingsSyncInsideTemplateRepoIsDryRun(t *testing.T) {
	fs := buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		wb.AddFolder("team.code-workspace", "../repos/d").
			AddProjectFile("../repos/d", ".vscode/settings.json", `{"deno.enable": true}`)
	})
	fs.SetCurrentDir("/src/vscode-team")
	env := newTestEnv(fs)
	addDenoTemplates(env, "master")

	err := env.run(t, NewWsctlCommand, "vscws", "settings", "sync", "deno", testWorkspaceFile)
	require.NoError(t, err)
	require.Empty(t, env.gh.Downloads())
	require.Contains(t, env.out.String(), "download https://raw.githubusercontent.com/shah/vscode-team/master/deno.vscode/settings.json /repos/d/.vscode\n")
}

func TestWsctl_ExecRunsInExistingFolders(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		twoRepos(wb)
		wb.AddFolder("team.code-workspace", "../repos/gone")
	}))

	err := env.run(t, NewWsctlCommand, "vscws", "exec", `make test ARGS="-v $PKG"`, testWorkspaceFile)
	require.NoError(t, err)

	calls := env.runner.Calls()
	require.Len(t, calls, 2)
	var dirs []string
	for _, c := range calls {
		require.Equal(t, []string{"make", "test", "ARGS=-v $PKG"}, c.Args)
		dirs = append(dirs, c.Dir)
	}
	require.ElementsMatch(t, []string{"/repos/a", "/repos/b"}, dirs)
}

func TestWsctl_ExecGitOnlyDryRun(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "exec", "--git", "git gc --auto", testWorkspaceFile, "--dry-run")
	require.NoError(t, err)
	require.Equal(t, "cd /repos/a\ngit gc --auto\n", env.out.String())
	require.Empty(t, env.calls())
}

func TestWsctl_ExecRejectsPipelines(t *testing.T) {
	env := newTestEnv(buildWorkspace(t, twoRepos))

	err := env.run(t, NewWsctlCommand, "vscws", "exec", "git log | head", testWorkspaceFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a simple command")
	require.Empty(t, env.calls())
}
