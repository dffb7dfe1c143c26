package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/github"
)

func TestIsURL(t *testing.T) {
	require.True(t, IsURL("https://raw.githubusercontent.com/shah/vscode-team/master/deno.vscode/settings.json"))
	require.True(t, IsURL("http://127.0.0.1:8080/a.json"))
	require.False(t, IsURL("deno.vscode/settings.json"))
	require.False(t, IsURL("/abs/path/settings.json"))
	require.False(t, IsURL("ftp://example.com/x"))
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/deno.vscode/settings.json":
			_, _ = w.Write([]byte(`{"deno.enable": true}`))
		case "/deno.vscode/extensions.json":
			_, _ = w.Write([]byte(`{"recommendations": ["denoland.vscode-deno"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCopySourceToDest_Download(t *testing.T) {
	srv := newServer(t)
	mfs := filesystem.NewMockFileSystem()
	mfs.AddDir("/p")

	var out bytes.Buffer
	c := NewCopier(mfs, nil, &out, nil)
	c.HTTP = srv.Client()

	err := c.CopySourceToDest(context.Background(), []string{
		srv.URL + "/deno.vscode/settings.json",
		srv.URL + "/deno.vscode/extensions.json",
	}, "/p/.vscode", Options{Verbose: true})
	require.NoError(t, err)

	data, err := mfs.ReadFile("/p/.vscode/settings.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"deno.enable": true}`, string(data))

	entries, err := mfs.ReadDir("/p/.vscode")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"extensions.json", "settings.json"}, names)
	require.Contains(t, out.String(), "Creating directory /p/.vscode")
}

func TestCopySourceToDest_DownloadIntoSymlinkedDir(t *testing.T) {
	srv := newServer(t)
	mfs := filesystem.NewMockFileSystem()
	mfs.AddDir("/shared/vscode")
	mfs.AddDir("/p")
	require.NoError(t, mfs.Symlink("/shared/vscode", "/p/.vscode"))

	c := NewCopier(mfs, nil, &bytes.Buffer{}, nil)
	c.HTTP = srv.Client()

	err := c.CopySourceToDest(context.Background(), []string{srv.URL + "/deno.vscode/settings.json"}, "/p/.vscode", Options{})
	require.NoError(t, err)

	_, err = mfs.ReadFile("/shared/vscode/settings.json")
	require.NoError(t, err)
}

func TestCopySourceToDest_HTTPError(t *testing.T) {
	srv := newServer(t)
	mfs := filesystem.NewMockFileSystem()
	mfs.AddDir("/p/.vscode")

	c := NewCopier(mfs, nil, &bytes.Buffer{}, nil)
	c.HTTP = srv.Client()

	err := c.CopySourceToDest(context.Background(), []string{srv.URL + "/missing.json"}, "/p/.vscode", Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 404")

	entries, err := mfs.ReadDir("/p/.vscode")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCopySourceToDest_GitHubRoute(t *testing.T) {
	gh := github.NewMockClient()
	gh.AddContent(github.ContentRef{Owner: "shah", Repo: "vscode-team", Ref: "v1.0.0", Path: "deno.vscode/settings.json"}, []byte(`{"deno.enable": true}`))

	mfs := filesystem.NewMockFileSystem()
	mfs.AddDir("/p/.vscode")
	c := NewCopier(mfs, gh, &bytes.Buffer{}, nil)

	sources := VsCodeTemplateSources("shah", "vscode-team", "v1.0.0", "deno")
	err := c.CopySourceToDest(context.Background(), sources[:1], "/p/.vscode", Options{})
	require.NoError(t, err)

	data, err := mfs.ReadFile("/p/.vscode/settings.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"deno.enable": true}`, string(data))
	require.Len(t, gh.Downloads(), 1)

	gh.DownloadContentsError = errors.New("bad credentials")
	err = c.CopySourceToDest(context.Background(), sources[1:], "/p/.vscode", Options{})
	require.ErrorContains(t, err, "bad credentials")
}

func TestCopySourceToDest_DryRun(t *testing.T) {
	mfs := filesystem.NewMockFileSystem()
	var out bytes.Buffer
	c := NewCopier(mfs, nil, &out, nil)

	err := c.CopySourceToDest(context.Background(), []string{
		"https://raw.githubusercontent.com/shah/vscode-team/master/deno.vscode/settings.json",
		"/templates/deno.vscode",
	}, "/p/.vscode", Options{DryRun: true})
	require.NoError(t, err)

	require.Equal(t, strings.Join([]string{
		"mkdir -p /p/.vscode",
		"download https://raw.githubusercontent.com/shah/vscode-team/master/deno.vscode/settings.json /p/.vscode",
		"cp -r /templates/deno.vscode /p/.vscode",
		"",
	}, "\n"), out.String())
	require.False(t, mfs.Exists("/p/.vscode"))
}

func TestCopySourceToDest_LocalTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "tmpl", "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "tmpl", "nested", "a.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "single.json"), []byte("[]"), 0644))

	dest := filepath.Join(t.TempDir(), "out")
	c := NewCopier(filesystem.NewOSFileSystem(), nil, &bytes.Buffer{}, nil)

	err := c.CopySourceToDest(context.Background(), []string{
		filepath.Join(src, "tmpl"),
		filepath.Join(src, "single.json"),
	}, dest, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "tmpl", "nested", "a.json"))
	require.NoError(t, err)
	require.Equal(t, "{}", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "single.json"))
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestVsCodeTemplateSources(t *testing.T) {
	require.Equal(t, []string{
		"https://raw.githubusercontent.com/shah/vscode-team/master/hugo.vscode/settings.json",
		"https://raw.githubusercontent.com/shah/vscode-team/master/hugo.vscode/extensions.json",
	}, VsCodeTemplateSources("shah", "vscode-team", "master", "hugo"))

	require.True(t, IsTemplateRepo("/src/vscode-team", "vscode-team"))
	require.False(t, IsTemplateRepo("/src/app", "vscode-team"))
}
