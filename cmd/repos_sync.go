package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yourorg/releasectl/internal/config"
	"github.com/yourorg/releasectl/internal/gitrepo"
	"github.com/yourorg/releasectl/internal/render"
	"github.com/yourorg/releasectl/internal/version"
)

const defaultBaseVersion = "v8.4.0"

type reposSyncOptions struct {
	releaseType string
	stability   string
	baseVersion string
}

func newReposSyncCmd(_ *globalOptions) *cobra.Command {
	opts := &reposSyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Clone or update every sibling repository and report latest tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.releaseType, "release-type", "", "internal or external (prompted if omitted)")
	cmd.Flags().StringVar(&opts.stability, "stability", "", "stable or unstable (prompted if omitted)")
	cmd.Flags().StringVar(&opts.baseVersion, "version", "", "Base version, e.g. v8.4.0 (prompted if omitted)")

	return cmd
}

func (opts *reposSyncOptions) run(cmd *cobra.Command) error {
	rt, st, base, err := opts.resolveInputs(cmd)
	if err != nil {
		return err
	}

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(),
		"Release: %s, Stability: %s, Version: %s\n\n", rt, st, base); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	client := gitrepo.NewClient()
	result := client.SyncAll(cmd.Context(), settings.WorkspaceRoot, settings.Repos, base,
		func(name string, syncErr error) {
			if syncErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s failed: %v\n", name, syncErr)
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ %s synced\n", name)
		})

	if err := printTagSummary(cmd, settings, result, rt, base); err != nil {
		return err
	}
	if err := printCompareURLs(cmd, settings, result, rt, base); err != nil {
		return err
	}
	return printChangelogs(cmd.Context(), cmd, client, settings, result, rt, base)
}

func (opts *reposSyncOptions) resolveInputs(cmd *cobra.Command) (version.ReleaseType, version.Stability, string, error) {
	releaseType := opts.releaseType
	stability := opts.stability
	base := opts.baseVersion

	if interactive(cmd) {
		var err error
		if releaseType == "" {
			releaseType, err = promptChoice(cmd, "Release type", []string{"internal", "external"}, "external")
			if err != nil {
				return "", "", "", err
			}
		}
		if stability == "" {
			stability, err = promptChoice(cmd, "Stability", []string{"stable", "unstable"}, "unstable")
			if err != nil {
				return "", "", "", err
			}
		}
		if base == "" {
			base, err = promptText(cmd, "Base version", defaultBaseVersion)
			if err != nil {
				return "", "", "", err
			}
		}
	}

	if releaseType == "" {
		releaseType = string(version.External)
	}
	if stability == "" {
		stability = string(version.Unstable)
	}
	if base == "" {
		base = defaultBaseVersion
	}

	rt, err := version.ParseReleaseType(releaseType)
	if err != nil {
		return "", "", "", err
	}
	st, err := version.ParseStability(stability)
	if err != nil {
		return "", "", "", err
	}
	return rt, st, version.Normalize(base), nil
}

func printTagSummary(
	cmd *cobra.Command,
	settings config.Settings,
	result gitrepo.SyncResult,
	rt version.ReleaseType,
	base string,
) error {
	out := cmd.OutOrStdout()
	if err := render.Title(out, "Latest Tags Summary"); err != nil {
		return err
	}

	rows := make([][]string, 0, len(settings.Repos))
	for _, repo := range settings.Repos {
		state, ok := result.States[repo.Name]
		if !ok {
			continue
		}
		pattern := repo.TagPattern(rt)
		branch := state.ReportBranch(repo.DefaultBranch, base)
		tag := state.LatestOn(branch, pattern)
		if tag == "" {
			tag = render.NoneCell()
		}
		rows = append(rows, []string{repo.Name, pattern, tag, branch})
	}

	return render.Table(out, []string{"Repo", "Pattern", "Latest Tag", "Branch"}, rows)
}

func printCompareURLs(
	cmd *cobra.Command,
	settings config.Settings,
	result gitrepo.SyncResult,
	rt version.ReleaseType,
	base string,
) error {
	out := cmd.OutOrStdout()
	title := "External GitHub Compare URLs"
	if rt == version.Internal {
		title = "Internal GitHub Compare URLs"
	}
	if err := render.Title(out, title); err != nil {
		return err
	}

	rows := make([][]string, 0, len(settings.Repos))
	for _, repo := range settings.Repos {
		state, ok := result.States[repo.Name]
		if !ok {
			continue
		}
		pattern := repo.TagPattern(rt)
		branch := state.ReportBranch(repo.DefaultBranch, base)
		tag := state.LatestOn(branch, pattern)

		link := render.NoneCell()
		if tag != "" {
			link = repo.CompareURL(tag, branch)
		}
		rows = append(rows, []string{repo.Name, link})
	}

	if err := render.Table(out, []string{"Repo", "Compare"}, rows); err != nil {
		return err
	}
	return printSyncFailures(cmd, result)
}

func printSyncFailures(cmd *cobra.Command, result gitrepo.SyncResult) error {
	if !result.Failed() {
		return nil
	}
	names := make([]string, 0, len(result.Errors))
	for name := range result.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s not synced: %v\n", name, result.Errors[name]); err != nil {
			return fmt.Errorf("write warning: %w", err)
		}
	}
	return nil
}

func printChangelogs(
	ctx context.Context,
	cmd *cobra.Command,
	client *gitrepo.Client,
	settings config.Settings,
	result gitrepo.SyncResult,
	rt version.ReleaseType,
	base string,
) error {
	out := cmd.OutOrStdout()
	for _, repo := range settings.Repos {
		state, ok := result.States[repo.Name]
		if !ok {
			continue
		}
		pattern := repo.TagPattern(rt)
		branch := state.ReportBranch(repo.DefaultBranch, base)
		tag := state.LatestOn(branch, pattern)
		if tag == "" {
			continue
		}
		if err := printChangesSinceTag(ctx, out, client, settings, repo, branch, tag); err != nil {
			return err
		}
	}
	return nil
}

func repoLocalPath(settings config.Settings, repo config.Repo) string {
	return filepath.Join(settings.WorkspaceRoot, repo.Path)
}

func printChangesSinceTag(
	ctx context.Context,
	out io.Writer,
	client *gitrepo.Client,
	settings config.Settings,
	repo config.Repo,
	branch, tag string,
) error {
	path := repoLocalPath(settings, repo)

	head, err := client.RevParse(ctx, path, branch)
	if err != nil {
		return err
	}
	tagCommit, err := client.TagCommit(ctx, path, tag)
	if err != nil {
		return err
	}

	if head == tagCommit {
		if _, err := fmt.Fprintf(out, "No changes in %s since %s on %s\n", repo.Name, tag, branch); err != nil {
			return fmt.Errorf("write no-change note: %w", err)
		}
		return nil
	}

	title := fmt.Sprintf("%s changes: %s...%s", repo.Name, tag, branch)
	if ts, tsErr := client.HeadTimestamp(ctx, path, branch); tsErr == nil {
		title = fmt.Sprintf("%s (head %s)", title, ts.Format("2006-01-02 15:04 MST"))
	}
	if err := render.Title(out, title); err != nil {
		return err
	}
	lines, err := client.LogSince(ctx, path, tag, branch)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("write log line: %w", err)
		}
	}
	return nil
}
