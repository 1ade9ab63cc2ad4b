package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourorg/releasectl/internal/config"
	"github.com/yourorg/releasectl/internal/render"
)

func newConfigCmd(globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and materialize the releasectl configuration",
	}

	cmd.AddCommand(newConfigInitCmd(globals))
	cmd.AddCommand(newConfigShowCmd(globals))

	return cmd
}

func newConfigInitCmd(_ *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to disk for editing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.Save(settings); err != nil {
				return err
			}
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path); err != nil {
				return fmt.Errorf("write confirmation: %w", err)
			}
			return nil
		},
	}
}

func newConfigShowCmd(_ *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return render.JSON(cmd.OutOrStdout(), settings)
		},
	}
}
