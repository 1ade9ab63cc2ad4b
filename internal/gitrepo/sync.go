package gitrepo

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yourorg/releasectl/internal/config"
	"github.com/yourorg/releasectl/internal/version"
)

// syncConcurrency bounds how many repositories sync at once.
const syncConcurrency = 4

// RepoState captures the branches and tags collected for one repository.
type RepoState struct {
	// Branches lists the branches synced, default branch first.
	Branches []string
	// BranchTags maps branch -> tag pattern -> recent tags merged into the
	// branch, newest first.
	BranchTags map[string]map[string][]string
	// OverallLatest maps tag pattern -> newest matching tag anywhere in the
	// repository ("" when none).
	OverallLatest map[string]string
}

// HasBranch reports whether the branch was synced.
func (s RepoState) HasBranch(branch string) bool {
	_, ok := s.BranchTags[branch]
	return ok
}

// LatestOn returns the newest tag for a pattern merged into the branch.
func (s RepoState) LatestOn(branch, pattern string) string {
	tags := s.BranchTags[branch][pattern]
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

// ReportBranch picks the branch a summary should report for a release: the
// chore_release branch of the base version when it was synced, otherwise the
// default branch.
func (s RepoState) ReportBranch(defaultBranch, baseVersion string) string {
	chore := version.ChoreBranch(baseVersion)
	if s.HasBranch(chore) {
		return chore
	}
	return defaultBranch
}

// SyncRepo clones or fetches one repository, checks out its default branch
// plus the chore_release branch for the base version when the remote has one,
// and collects the recent tags per pattern.
func (c *Client) SyncRepo(ctx context.Context, root string, repo config.Repo, baseVersion string) (RepoState, error) {
	path := filepath.Join(root, repo.Path)

	if err := c.CloneOrFetch(ctx, repo.URL, path); err != nil {
		return RepoState{}, err
	}

	branches := []string{repo.DefaultBranch}
	chore := version.ChoreBranch(baseVersion)
	if c.BranchExists(ctx, repo.URL, chore) {
		branches = append(branches, chore)
	}

	state := RepoState{
		Branches:      branches,
		BranchTags:    make(map[string]map[string][]string, len(branches)),
		OverallLatest: make(map[string]string, 2),
	}

	for _, branch := range branches {
		if err := c.EnsureBranch(ctx, path, branch); err != nil {
			return RepoState{}, err
		}
		byPattern := make(map[string][]string, 2)
		for _, pattern := range repo.Patterns() {
			tags, err := c.TagsMergedInto(ctx, path, branch, pattern)
			if err != nil {
				return RepoState{}, err
			}
			byPattern[pattern] = tags
		}
		state.BranchTags[branch] = byPattern
	}

	for _, pattern := range repo.Patterns() {
		latest, err := c.LatestTag(ctx, path, pattern)
		if err != nil {
			return RepoState{}, err
		}
		state.OverallLatest[pattern] = latest
	}

	return state, nil
}

// SyncResult aggregates the per-repository outcomes of a workspace sync.
type SyncResult struct {
	States map[string]RepoState
	Errors map[string]error
}

// Failed reports whether any repository failed to sync.
func (r SyncResult) Failed() bool {
	return len(r.Errors) > 0
}

// SyncAll syncs every repository concurrently. Individual failures are
// recorded per repository rather than aborting the others; notify, when
// non-nil, receives a progress line per repository as it finishes.
func (c *Client) SyncAll(
	ctx context.Context,
	root string,
	repos []config.Repo,
	baseVersion string,
	notify func(name string, err error),
) SyncResult {
	result := SyncResult{
		States: make(map[string]RepoState, len(repos)),
		Errors: make(map[string]error),
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(syncConcurrency)

	for _, repo := range repos {
		group.Go(func() error {
			state, err := c.SyncRepo(groupCtx, root, repo, baseVersion)

			mu.Lock()
			if err != nil {
				result.Errors[repo.Name] = err
			} else {
				result.States[repo.Name] = state
			}
			mu.Unlock()

			if notify != nil {
				notify(repo.Name, err)
			}
			return nil
		})
	}

	// Goroutines record failures in the result instead of returning them.
	_ = group.Wait()
	return result
}
