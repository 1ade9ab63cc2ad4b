package cmd

import "github.com/spf13/cobra"

func newReposCmd(globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Inspect and sync the robot stack sibling repositories",
	}

	cmd.AddCommand(newReposSyncCmd(globals))

	return cmd
}
