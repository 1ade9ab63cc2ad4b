package cmd

import "github.com/spf13/cobra"

func newAuthCmd(globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored GitHub credentials",
	}

	cmd.AddCommand(newAuthLoginCmd(globals))

	return cmd
}
