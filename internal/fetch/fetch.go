// Package fetch copies files from URLs or local paths into a directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/otiai10/copy"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/github"
	"github.com/shah/vscode-team/internal/logging"
)

const stagingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var urlPattern = regexp.MustCompile(`(?i)^https?://[^/\s]+(/\S*)?$`)

// IsURL reports whether source is an http(s) URL. Anything else is a local
// path.
func IsURL(source string) bool {
	return urlPattern.MatchString(source)
}

type Options struct {
	DryRun  bool
	Verbose bool
}

// Copier fetches sources into a destination directory. Downloads are staged
// under a unique name and renamed into place. Local sources are copied with
// their whole tree and need the OS filesystem.
type Copier struct {
	FS     filesystem.FileSystem
	HTTP   *http.Client
	GitHub github.GitHubClient
	Out    io.Writer
	Logger *log.Logger
}

func NewCopier(fsys filesystem.FileSystem, gh github.GitHubClient, out io.Writer, logger *log.Logger) *Copier {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Copier{
		FS:     fsys,
		HTTP:   http.DefaultClient,
		GitHub: gh,
		Out:    out,
		Logger: logger,
	}
}

// CopySourceToDest creates dest when missing and copies every source into
// it, overwriting existing files. In dry-run mode the equivalent shell
// commands are printed instead.
func (c *Copier) CopySourceToDest(ctx context.Context, sources []string, dest string, opts Options) error {
	exists, err := filesystem.Probe(c.FS, dest)
	if err != nil {
		return err
	}

	if !exists {
		if opts.DryRun {
			fmt.Fprintf(c.Out, "mkdir -p %s\n", dest)
		} else {
			if opts.Verbose {
				fmt.Fprintf(c.Out, "Creating directory %s\n", dest)
			}
			if err := c.FS.MkdirAll(dest, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dest, err)
			}
		}
	}

	for _, src := range sources {
		if opts.Verbose {
			fmt.Fprintf(c.Out, "Copying %s to %s\n", src, dest)
		}

		if IsURL(src) {
			if opts.DryRun {
				fmt.Fprintf(c.Out, "download %s %s\n", src, dest)
				continue
			}
			if err := c.download(ctx, src, dest); err != nil {
				return err
			}
			continue
		}

		if opts.DryRun {
			fmt.Fprintf(c.Out, "cp -r %s %s\n", src, dest)
			continue
		}
		target := filepath.Join(dest, filepath.Base(src))
		if err := copy.Copy(src, target); err != nil {
			return fmt.Errorf("failed to copy %s to %s: %w", src, target, err)
		}
	}

	return nil
}

func (c *Copier) download(ctx context.Context, src, dest string) error {
	u, err := url.Parse(src)
	if err != nil {
		return fmt.Errorf("invalid URL %s: %w", src, err)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return fmt.Errorf("no file name in %s", src)
	}

	data, err := c.fetch(ctx, src)
	if err != nil {
		return err
	}

	id, err := gonanoid.Generate(stagingAlphabet, 10)
	if err != nil {
		return fmt.Errorf("failed to generate staging name: %w", err)
	}
	staging := filepath.Join(dest, "."+name+"."+id+".download")
	if err := c.FS.WriteFile(staging, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", staging, err)
	}

	target := filepath.Join(dest, name)
	if err := c.FS.Rename(staging, target); err != nil {
		_ = c.FS.Remove(staging)
		return fmt.Errorf("failed to move download into %s: %w", target, err)
	}
	c.Logger.Debug("downloaded", "url", src, "path", target, "bytes", len(data))
	return nil
}

func (c *Copier) fetch(ctx context.Context, src string) ([]byte, error) {
	if c.GitHub != nil {
		if ref, ok := github.ParseContentURL(src); ok {
			c.Logger.Debug("downloading through GitHub API", "ref", ref.String())
			return c.GitHub.DownloadContents(ctx, ref.Owner, ref.Repo, ref.Ref, ref.Path)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", src, err)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d-'%s'", src, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return data, nil
}

// VsCodeTemplateSources lists the settings.json and extensions.json of the
// <kind>.vscode directory in a template repository at ref.
func VsCodeTemplateSources(owner, repo, ref, kind string) []string {
	dir := kind + ".vscode"
	return []string{
		github.RawURL(github.ContentRef{Owner: owner, Repo: repo, Ref: ref, Path: dir + "/settings.json"}),
		github.RawURL(github.ContentRef{Owner: owner, Repo: repo, Ref: ref, Path: dir + "/extensions.json"}),
	}
}

// IsTemplateRepo reports whether dir is a checkout of the template
// repository itself, where syncing would overwrite the templates.
func IsTemplateRepo(dir, repo string) bool {
	return filepath.Base(dir) == repo
}
