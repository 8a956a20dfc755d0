package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var envFlag string

	ctx := newCommandContext(&configFlag, &envFlag)

	rootCmd := &cobra.Command{
		Use:           "evermark-cli",
		Short:         "Operate the Evermark minting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "config/", "Path to environment files")

	rootCmd.AddCommand(newReconcileCommand(ctx))
	rootCmd.AddCommand(newCheckDuplicateCommand(ctx))
	rootCmd.AddCommand(newChainStatusCommand(ctx))
	rootCmd.AddCommand(newReferralCommand(ctx))
	rootCmd.AddCommand(newGCCommand(ctx))
	rootCmd.AddCommand(newMoveAssetsCommand(ctx))

	return rootCmd
}
