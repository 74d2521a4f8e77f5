package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "portalctl",
		Short:        "Operations tooling for the salary portal",
		SilenceUsage: true,
	}
	cmd.AddCommand(newMigrateCmd(), newSeedCmd(), newAPIKeyCmd(), newCalcCmd())
	return cmd
}
