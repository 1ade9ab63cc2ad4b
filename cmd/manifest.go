package cmd

import "github.com/spf13/cobra"

func newManifestCmd(globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Report what is currently published for the app and robots",
	}

	cmd.AddCommand(newManifestAppCmd(globals))
	cmd.AddCommand(newManifestRobotCmd(globals))

	return cmd
}

const (
	formatJSON  = "json"
	formatTable = "table"
)
