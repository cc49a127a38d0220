package main

import (
	"fmt"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree <page.yaml>",
	Short: "Export the page tree as a Mermaid diagram",
	Long:  `Compiles the page and outputs a Mermaid diagram (graph TD) of its scenes and their children.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		page, err := libretto.LoadPage(args[0], stack.Registry)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(page, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
