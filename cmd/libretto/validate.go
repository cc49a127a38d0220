package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <page.yaml>...",
	Short: "Check page documents for composition errors",
	Long:  `Compiles each page document and reports the first invalid child, unknown generator or malformed field.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			page, err := libretto.LoadPage(path, stack.Registry)
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s %v\n", tui.Status(out, false, "FAIL"), err)
				continue
			}
			fmt.Fprintf(out, "%s %s (%d scenes; %s)\n", tui.Status(out, true, "OK"),
				path, len(page.Scenes), strings.Join(page.Languages(), ", "))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d pages invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
