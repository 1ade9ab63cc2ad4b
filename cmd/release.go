package cmd

import "github.com/spf13/cobra"

func newReleaseCmd(globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Plan and check the next robot stack release cut",
	}

	cmd.AddCommand(newReleasePlanCmd(globals))
	cmd.AddCommand(newReleaseCheckCmd(globals))

	return cmd
}
