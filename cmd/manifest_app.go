package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourorg/releasectl/internal/builds"
	"github.com/yourorg/releasectl/internal/render"
)

type manifestAppOptions struct {
	format   string
	internal bool
}

func newManifestAppCmd(_ *globalOptions) *cobra.Command {
	opts := &manifestAppOptions{format: formatTable}

	cmd := &cobra.Command{
		Use:   "app",
		Short: "Fetch the app channel manifests for every platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", opts.format, "Output format: json|table")
	cmd.Flags().BoolVar(&opts.internal, "internal", false, "Use the internal (ot3-development) endpoints")

	return cmd
}

func (opts *manifestAppOptions) run(cmd *cobra.Command) error {
	if opts.format != formatJSON && opts.format != formatTable {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	client, err := buildBuildsClient(opts.internal)
	if err != nil {
		return err
	}

	results := builds.FetchAppManifests(cmd.Context(), client)

	if opts.format == formatJSON {
		return renderAppJSON(cmd, results)
	}
	return renderAppTable(cmd, results, opts.internal)
}

type appChannelReport struct {
	Channel     string           `json:"channel"`
	Version     string           `json:"version,omitempty"`
	Path        string           `json:"path,omitempty"`
	ReleaseDate string           `json:"release_date,omitempty"`
	Files       []builds.AppFile `json:"files,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func renderAppJSON(cmd *cobra.Command, results []builds.AppResult) error {
	reports := make([]appChannelReport, 0, len(results))
	for _, res := range results {
		report := appChannelReport{Channel: res.Label}
		if res.Err != nil {
			report.Error = res.Err.Error()
		} else {
			report.Version = res.Manifest.Version
			report.Path = res.Manifest.Path
			report.ReleaseDate = res.Manifest.ReleaseDate
			report.Files = res.Manifest.Files
		}
		reports = append(reports, report)
	}
	return render.JSON(cmd.OutOrStdout(), reports)
}

func renderAppTable(cmd *cobra.Command, results []builds.AppResult, internal bool) error {
	out := cmd.OutOrStdout()
	title := "Opentrons App Manifests"
	if internal {
		title = "Internal Opentrons App Manifests"
	}
	if err := render.Title(out, title); err != nil {
		return err
	}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			rows = append(rows, []string{res.Label, "ERROR", "-", render.ErrorCell(res.Err.Error())})
			continue
		}
		date := "N/A"
		if ts, ok := res.Manifest.ReleaseTime(); ok {
			date = ts.Local().Format("2006-01-02 15:04:05 MST")
		}
		rows = append(rows, []string{res.Label, res.Manifest.Version, res.Manifest.Path, date})
	}

	return render.Table(out, []string{"Channel", "Version", "Path", "Release Date"}, rows)
}
