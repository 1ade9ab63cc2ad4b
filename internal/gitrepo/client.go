package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourorg/releasectl/internal/version"
)

const (
	// tagListLimit caps how many recent tags a branch summary keeps.
	tagListLimit = 7
	// logLimit caps how many commits a changelog excerpt shows.
	logLimit = 20
)

// Client performs git operations through a Runner.
type Client struct {
	run Runner
}

// NewClient constructs a Client backed by the git binary.
func NewClient() *Client {
	return &Client{run: ExecRunner{}}
}

// NewClientWithRunner constructs a Client with a custom runner (used by tests).
func NewClientWithRunner(r Runner) *Client {
	return &Client{run: r}
}

// CloneOrFetch clones the repository when the local path has no .git
// directory, otherwise fetches all remotes.
func (c *Client) CloneOrFetch(ctx context.Context, url, path string) error {
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		if _, cloneErr := c.run.Run(ctx, "", "clone", url, path); cloneErr != nil {
			return fmt.Errorf("clone %s: %w", url, cloneErr)
		}
		return nil
	}
	if _, err := c.run.Run(ctx, path, "fetch", "--all"); err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	return nil
}

// BranchExists reports whether the named branch exists on the remote.
func (c *Client) BranchExists(ctx context.Context, url, branch string) bool {
	out, err := c.run.Run(ctx, "", "ls-remote", "--heads", url, "refs/heads/"+branch)
	return err == nil && out != ""
}

// RemoteChoreBranches lists the chore_release-* branches on the remote whose
// suffix is a plain dotted version.
func (c *Client) RemoteChoreBranches(ctx context.Context, url string) ([]string, error) {
	out, err := c.run.Run(ctx, "", "ls-remote", "--heads", url)
	if err != nil {
		return nil, fmt.Errorf("list remote branches: %w", err)
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		_, ref, ok := strings.Cut(line, "refs/heads/")
		if !ok {
			continue
		}
		if _, valid := version.ChoreBranchVersion(ref); valid {
			branches = append(branches, ref)
		}
	}
	return branches, nil
}

// LatestChoreBranch resolves the highest-versioned chore_release branch on the
// remote, or "" when none exist.
func (c *Client) LatestChoreBranch(ctx context.Context, url string) (string, error) {
	branches, err := c.RemoteChoreBranches(ctx, url)
	if err != nil {
		return "", err
	}
	return version.LatestChoreBranch(branches), nil
}

// localBranches lists the branch names present in the local clone.
func (c *Client) localBranches(ctx context.Context, path string) ([]string, error) {
	out, err := c.run.Run(ctx, path, "branch")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// EnsureBranch checks the branch out, creating it from origin when absent,
// and pulls the latest changes when it already existed.
func (c *Client) EnsureBranch(ctx context.Context, path, branch string) error {
	existing, err := c.localBranches(ctx, path)
	if err != nil {
		return err
	}

	present := false
	for _, b := range existing {
		if b == branch {
			present = true
			break
		}
	}

	if !present {
		if _, err := c.run.Run(ctx, path, "checkout", "-B", branch, "origin/"+branch); err != nil {
			return fmt.Errorf("checkout %s: %w", branch, err)
		}
		return nil
	}

	if _, err := c.run.Run(ctx, path, "checkout", branch); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	if _, err := c.run.Run(ctx, path, "pull"); err != nil {
		return fmt.Errorf("pull %s: %w", branch, err)
	}
	return nil
}

// TagsMergedInto lists the most recent tags matching pattern* that are merged
// into the branch, newest first.
func (c *Client) TagsMergedInto(ctx context.Context, path, branch, pattern string) ([]string, error) {
	out, err := c.run.Run(ctx, path,
		"tag", "-l", pattern+"*", "--merged", branch, "--sort=-creatordate")
	if err != nil {
		return nil, fmt.Errorf("list tags merged into %s: %w", branch, err)
	}
	tags := splitLines(out)
	if len(tags) > tagListLimit {
		tags = tags[:tagListLimit]
	}
	return tags, nil
}

// LatestTag returns the newest tag matching pattern* anywhere in the
// repository, or "" when no tag matches.
func (c *Client) LatestTag(ctx context.Context, path, pattern string) (string, error) {
	out, err := c.run.Run(ctx, path, "tag", "-l", pattern+"*", "--sort=-creatordate")
	if err != nil {
		return "", fmt.Errorf("list tags: %w", err)
	}
	tags := splitLines(out)
	if len(tags) == 0 {
		return "", nil
	}
	return tags[0], nil
}

// AllTags lists every tag matching pattern*.
func (c *Client) AllTags(ctx context.Context, path, pattern string) ([]string, error) {
	out, err := c.run.Run(ctx, path, "tag", "-l", pattern+"*")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return splitLines(out), nil
}

// RevParse resolves a ref to a commit hash.
func (c *Client) RevParse(ctx context.Context, path, ref string) (string, error) {
	out, err := c.run.Run(ctx, path, "rev-parse", ref)
	if err != nil {
		return "", fmt.Errorf("rev-parse %s: %w", ref, err)
	}
	return out, nil
}

// TagCommit resolves the commit a tag points at.
func (c *Client) TagCommit(ctx context.Context, path, tag string) (string, error) {
	out, err := c.run.Run(ctx, path, "rev-list", "-n", "1", tag)
	if err != nil {
		return "", fmt.Errorf("resolve tag %s: %w", tag, err)
	}
	return out, nil
}

// LogSince returns up to 20 one-line commits in tag..branch.
func (c *Client) LogSince(ctx context.Context, path, tag, branch string) ([]string, error) {
	out, err := c.run.Run(ctx, path,
		"log", "--oneline", "-n", fmt.Sprint(logLimit), tag+".."+branch)
	if err != nil {
		return nil, fmt.Errorf("log %s..%s: %w", tag, branch, err)
	}
	return splitLines(out), nil
}

// HeadTimestamp returns the commit time of the branch head in local time.
func (c *Client) HeadTimestamp(ctx context.Context, path, branch string) (time.Time, error) {
	out, err := c.run.Run(ctx, path, "log", "-1", "--format=%cI", branch)
	if err != nil {
		return time.Time{}, fmt.Errorf("head timestamp of %s: %w", branch, err)
	}
	ts, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse head timestamp %q: %w", out, err)
	}
	return ts.Local(), nil
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
