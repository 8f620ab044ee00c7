package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsGitURL reports whether src names a remote repository rather than a
// local directory. Both URL form (https://host/repo.git) and scp form
// (git@host:user/repo.git) are recognized.
func IsGitURL(src string) bool {
	if u, err := url.Parse(src); err == nil {
		switch u.Scheme {
		case "http", "https", "ssh", "git":
			return u.Host != ""
		}
	}
	_, _, ok := splitSCP(src)
	return ok
}

// RepoPath maps a repository URL to its checkout directory under baseDir,
// e.g. https://github.com/u/deck.git -> baseDir/github.com/u/deck.
func RepoPath(baseDir, repoURL string) (string, error) {
	if u, err := url.Parse(repoURL); err == nil && u.Host != "" && u.Scheme != "" {
		return checkoutPath(baseDir, u.Hostname(), u.Path)
	}
	if host, path, ok := splitSCP(repoURL); ok {
		return checkoutPath(baseDir, host, path)
	}
	return "", fmt.Errorf("could not parse git URL %q", repoURL)
}

func checkoutPath(baseDir, host, repoPath string) (string, error) {
	repoPath = strings.Trim(strings.TrimSuffix(repoPath, ".git"), "/")
	if repoPath == "" {
		return "", fmt.Errorf("git URL for %s has no repository path", host)
	}
	p := filepath.Join(baseDir, host, filepath.FromSlash(repoPath))
	// Reject paths like host/../../etc that escape baseDir.
	rel, err := filepath.Rel(baseDir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("git URL path %q escapes %s", repoPath, baseDir)
	}
	return p, nil
}

// splitSCP parses user@host:path.
func splitSCP(s string) (host, path string, ok bool) {
	at := strings.Index(s, "@")
	colon := strings.Index(s, ":")
	if at < 0 || colon < at || strings.Contains(s[:colon], "/") {
		return "", "", false
	}
	host, path = s[at+1:colon], s[colon+1:]
	if host == "" || path == "" {
		return "", "", false
	}
	return host, path, true
}

// syncRepo clones repoURL into dir, or pulls if dir already holds a checkout.
func syncRepo(ctx context.Context, repoURL, dir string, logger *slog.Logger) error {
	_, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("cloning deck repository", "url", repoURL, "dir", dir)
		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			return fmt.Errorf("create repos dir: %w", err)
		}
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: repoURL})
		if err != nil {
			return fmt.Errorf("clone %s: %w", repoURL, err)
		}
	case err == nil:
		logger.Info("pulling deck repository", "url", repoURL, "dir", dir)
		repo, err := git.PlainOpen(dir)
		if err != nil {
			return fmt.Errorf("open checkout %s: %w", dir, err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("worktree %s: %w", dir, err)
		}
		err = wt.PullContext(ctx, &git.PullOptions{RemoteName: git.DefaultRemoteName})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("pull %s: %w", repoURL, err)
		}
	default:
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	return nil
}
