package main

import (
	"fmt"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/internal/presentation/tui"
	"github.com/aretw0/libretto/pkg/export"
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <page.yaml>",
	Short: "Show the page outline and narration in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		raw, _ := cmd.Flags().GetBool("raw")

		stack, err := newStack(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		page, err := libretto.LoadPage(args[0], stack.Registry)
		if err != nil {
			return err
		}
		md := export.Markdown(page)
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		styled, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), styled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)

	outlineCmd.Flags().Int("width", 80, "Word wrap width")
	outlineCmd.Flags().Bool("raw", false, "Print the Markdown source instead of styled output")
}
