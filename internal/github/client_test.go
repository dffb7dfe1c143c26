package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_DownloadContents(t *testing.T) {
	var gotPath, gotRef, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRef = r.URL.Query().Get("ref")
		gotAuth = r.Header.Get("Authorization")

		content := base64.StdEncoding.EncodeToString([]byte(`{"deno.enable": true}`))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"file","name":"settings.json","encoding":"base64","content":%q}`, content)
	}))
	defer srv.Close()

	client, err := NewClient("secret").WithBaseURL(srv.URL)
	require.NoError(t, err)

	data, err := client.DownloadContents(context.Background(), "shah", "vscode-team", "v1.2.0", "deno.vscode/settings.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"deno.enable": true}`, string(data))

	require.Equal(t, "/repos/shah/vscode-team/contents/deno.vscode/settings.json", gotPath)
	require.Equal(t, "v1.2.0", gotRef)
	require.Equal(t, "Bearer secret", gotAuth)
}

func TestClient_DownloadContentsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	defer srv.Close()

	client, err := NewClientWithoutAuth().WithBaseURL(srv.URL)
	require.NoError(t, err)

	_, err = client.DownloadContents(context.Background(), "shah", "vscode-team", "", "missing.json")
	require.Error(t, err)
	require.Contains(t, err.Error(), "shah/vscode-team@:missing.json")
}

func TestParseContentURL(t *testing.T) {
	tests := []struct {
		url  string
		want ContentRef
		ok   bool
	}{
		{
			url:  "https://raw.githubusercontent.com/shah/vscode-team/master/deno.vscode/settings.json",
			want: ContentRef{Owner: "shah", Repo: "vscode-team", Ref: "master", Path: "deno.vscode/settings.json"},
			ok:   true,
		},
		{
			url:  "https://github.com/shah/vscode-team/blob/v1.0.0/deno.vscode/extensions.json",
			want: ContentRef{Owner: "shah", Repo: "vscode-team", Ref: "v1.0.0", Path: "deno.vscode/extensions.json"},
			ok:   true,
		},
		{url: "https://example.com/settings.json"},
		{url: "/local/path/settings.json"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := ParseContentURL(tt.url)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTokenFromEnv(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "fallback")
	require.Equal(t, "fallback", TokenFromEnv())

	t.Setenv("GH_TOKEN", "primary")
	require.Equal(t, "primary", TokenFromEnv())

	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	_, err := NewClientFromEnv()
	require.ErrorIs(t, err, ErrGitHubTokenNotFound)
}
