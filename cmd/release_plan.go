package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourorg/releasectl/internal/config"
	"github.com/yourorg/releasectl/internal/gitrepo"
	"github.com/yourorg/releasectl/internal/render"
	"github.com/yourorg/releasectl/internal/version"
)

type releasePlanOptions struct {
	releaseType string
	baseVersion string
}

func newReleasePlanCmd(_ *globalOptions) *cobra.Command {
	opts := &releasePlanOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the tag each repository should receive and validate against existing tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.releaseType, "release-type", "", "internal or external (prompted if omitted)")
	cmd.Flags().StringVar(&opts.baseVersion, "version", "", "Base version, e.g. v8.4.0 (prompted if omitted)")

	return cmd
}

func (opts *releasePlanOptions) run(cmd *cobra.Command) error {
	releaseType := opts.releaseType
	base := opts.baseVersion

	if interactive(cmd) {
		var err error
		if releaseType == "" {
			releaseType, err = promptChoice(cmd, "Release type", []string{"internal", "external"}, "external")
			if err != nil {
				return err
			}
		}
		if base == "" {
			base, err = promptText(cmd, "Base version", defaultBaseVersion)
			if err != nil {
				return err
			}
		}
	}
	if releaseType == "" {
		releaseType = string(version.External)
	}
	if base == "" {
		base = defaultBaseVersion
	}

	rt, err := version.ParseReleaseType(releaseType)
	if err != nil {
		return err
	}
	base = version.Normalize(base)

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := gitrepo.NewClient()
	out := cmd.OutOrStdout()

	if err := render.Title(out, fmt.Sprintf("Release Plan %s (%s)", base, rt)); err != nil {
		return err
	}

	rows := make([][]string, 0, len(settings.Repos))
	for _, repo := range settings.Repos {
		rows = append(rows, planRow(cmd, client, settings, repo, rt, base))
	}
	if err := render.Table(out, []string{"Repo", "Pattern", "Planned Tag", "Latest Existing", "Status"}, rows); err != nil {
		return err
	}

	return printChecklist(out)
}

// planRow validates one repository against its planned tag. Repositories that
// have not been synced locally cannot be validated.
func planRow(
	cmd *cobra.Command,
	client *gitrepo.Client,
	settings config.Settings,
	repo config.Repo,
	rt version.ReleaseType,
	base string,
) []string {
	pattern := repo.TagPattern(rt)
	planned := version.PlannedTag(pattern, base)

	path := repoLocalPath(settings, repo)
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return []string{repo.Name, pattern, planned, render.NoneCell(), "not synced (run releasectl repos sync)"}
	}

	ctx := cmd.Context()
	existing, err := client.AllTags(ctx, path, pattern)
	if err != nil {
		return []string{repo.Name, pattern, planned, render.NoneCell(), render.ErrorCell(err.Error())}
	}
	latest, err := client.LatestTag(ctx, path, pattern)
	if err != nil {
		return []string{repo.Name, pattern, planned, render.NoneCell(), render.ErrorCell(err.Error())}
	}
	if latest == "" {
		latest = render.NoneCell()
	}

	if greater := version.GreaterExisting(pattern, planned, existing); len(greater) > 0 {
		status := render.ErrorCell("blocked: greater tags exist: " + strings.Join(greater, ", "))
		return []string{repo.Name, pattern, planned, latest, status}
	}
	return []string{repo.Name, pattern, planned, latest, render.OKCell("ok to tag")}
}

// checklist is the manual remainder of the release runbook that releasectl
// cannot verify on its own.
var checklist = []string{
	"Release notes merged (api/release-notes.md, app-shell/build/release-notes.md, internal variants)",
	"opentrons-modules changes require module tags plus buildroot and oe-core version bumps",
	"No open PRs into the chore_release branch (releasectl release check)",
	"Stable releases merge to the release branch before tagging",
	"After the builds: validate the releases.json documents and every app channel YAML",
	"Invalidate the CDN cache and confirm the app offers the new version",
	"Stable releases: merge the chore_release branch back on oe-core, buildroot, ot3-firmware",
}

func printChecklist(out io.Writer) error {
	if err := render.Title(out, "Remaining Manual Steps"); err != nil {
		return err
	}
	for i, item := range checklist {
		if _, err := fmt.Fprintf(out, "%2d. %s\n", i+1, item); err != nil {
			return fmt.Errorf("write checklist: %w", err)
		}
	}
	return nil
}
