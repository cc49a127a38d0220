package main

import (
	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of libretto",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), libretto.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
