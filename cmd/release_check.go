package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourorg/releasectl/internal/config"
	"github.com/yourorg/releasectl/internal/render"
	"github.com/yourorg/releasectl/internal/version"
)

type releaseCheckOptions struct {
	baseVersion string
}

func newReleaseCheckCmd(globals *globalOptions) *cobra.Command {
	opts := &releaseCheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "List open pull requests into the chore_release branch of the monorepo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, globals)
		},
	}

	cmd.Flags().StringVar(&opts.baseVersion, "version", "", "Base version, e.g. v8.4.0")
	cobra.CheckErr(cmd.MarkFlagRequired("version"))

	return cmd
}

func (opts *releaseCheckOptions) run(cmd *cobra.Command, globals *globalOptions) error {
	base := version.Normalize(opts.baseVersion)
	branch := version.ChoreBranch(base)

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	mono, ok := settings.Monorepo()
	if !ok {
		return fmt.Errorf("no opentrons repository configured")
	}
	owner, repo, err := ownerRepoFromURL(mono.URL)
	if err != nil {
		return err
	}

	client, err := buildGitHubClient(globals.profile)
	if err != nil {
		return err
	}

	pulls, err := client.OpenPullRequests(cmd.Context(), owner, repo, branch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(pulls) == 0 {
		if _, err := fmt.Fprintf(out, "No open pull requests into %s\n", branch); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return nil
	}

	if err := render.Title(out, fmt.Sprintf("Open Pull Requests into %s", branch)); err != nil {
		return err
	}
	rows := make([][]string, 0, len(pulls))
	for _, pr := range pulls {
		draft := ""
		if pr.Draft {
			draft = "draft"
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", pr.Number), pr.Title, pr.User.Login, draft, pr.HTMLURL,
		})
	}
	return render.Table(out, []string{"PR", "Title", "Author", "State", "URL"}, rows)
}

// ownerRepoFromURL extracts the owner and repository name from a GitHub
// clone URL.
func ownerRepoFromURL(url string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(url, ".git")
	_, path, ok := strings.Cut(trimmed, "github.com/")
	if !ok {
		return "", "", fmt.Errorf("not a GitHub URL: %s", url)
	}
	owner, repo, ok = strings.Cut(path, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from %s", url)
	}
	return owner, repo, nil
}
