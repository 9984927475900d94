package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svanichkin/bwrle/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Creates the home directory and a default config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home := homeDir(cmd)
			if err := config.InitHomeDir(home); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", home)
			return nil
		},
	}
}
