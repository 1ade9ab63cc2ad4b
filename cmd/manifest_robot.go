package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourorg/releasectl/internal/builds"
	"github.com/yourorg/releasectl/internal/render"
)

type manifestRobotOptions struct {
	format   string
	internal bool
}

func newManifestRobotCmd(_ *globalOptions) *cobra.Command {
	opts := &manifestRobotOptions{format: formatTable}

	cmd := &cobra.Command{
		Use:   "robot",
		Short: "Fetch the Flex and OT-2 release metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", opts.format, "Output format: json|table")
	cmd.Flags().BoolVar(&opts.internal, "internal", false, "Use the internal (ot3-development) endpoints")

	return cmd
}

func (opts *manifestRobotOptions) run(cmd *cobra.Command) error {
	if opts.format != formatJSON && opts.format != formatTable {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	client, err := buildBuildsClient(opts.internal)
	if err != nil {
		return err
	}

	results := builds.FetchRobotReleases(cmd.Context(), client)

	if opts.format == formatJSON {
		return renderRobotJSON(cmd, results)
	}
	return renderRobotTable(cmd, results, opts.internal)
}

type robotChannelReport struct {
	Robot      string `json:"robot"`
	Channel    string `json:"channel"`
	Version    string `json:"version,omitempty"`
	VersionURL string `json:"version_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// robotChannelRows flattens fetch results into one row per robot/channel,
// ordered alpha, beta, stable, then errors (matching the report layout the
// release team reads).
func robotChannelRows(results []builds.RobotResult) []robotChannelReport {
	channels := []struct {
		name string
		pick func(builds.ReleaseSet) *builds.RobotRelease
	}{
		{"alpha", builds.ReleaseSet.LatestAlpha},
		{"beta", builds.ReleaseSet.LatestBeta},
		{"stable", builds.ReleaseSet.LatestStable},
	}

	var rows []robotChannelReport
	for _, channel := range channels {
		for _, res := range results {
			if res.Err != nil {
				continue
			}
			if rel := channel.pick(res.Releases); rel != nil {
				rows = append(rows, robotChannelReport{
					Robot:      res.Label,
					Channel:    channel.name,
					Version:    rel.Version,
					VersionURL: rel.VersionURL,
				})
			}
		}
	}
	for _, res := range results {
		if res.Err != nil {
			rows = append(rows, robotChannelReport{
				Robot:   res.Label,
				Channel: "ERROR",
				Error:   res.Err.Error(),
			})
		}
	}
	return rows
}

func renderRobotJSON(cmd *cobra.Command, results []builds.RobotResult) error {
	return render.JSON(cmd.OutOrStdout(), robotChannelRows(results))
}

func renderRobotTable(cmd *cobra.Command, results []builds.RobotResult, internal bool) error {
	out := cmd.OutOrStdout()
	title := "Opentrons Robot Releases"
	if internal {
		title = "Internal Opentrons Robot Releases"
	}
	if err := render.Title(out, title); err != nil {
		return err
	}

	reports := robotChannelRows(results)
	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		if report.Error != "" {
			rows = append(rows, []string{report.Robot, report.Channel, "-", render.ErrorCell(report.Error)})
			continue
		}
		rows = append(rows, []string{report.Robot, report.Channel, report.Version, report.VersionURL})
	}

	return render.Table(out, []string{"Robot", "Channel", "Version", "Version URL"}, rows)
}
