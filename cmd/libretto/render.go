package main

import (
	"github.com/aretw0/libretto/internal/cli"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <page.yaml>",
	Short: "Render every scene of a page in every language",
	Long: `Compiles the page and renders its scenes in order, each in its declared
languages, printing the timed narration tokens as they are produced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")
		ext, _ := cmd.Flags().GetString("ext")
		strict, _ := cmd.Flags().GetBool("strict")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx, stop := cli.WithSignals(cmd.Context())
		defer stop()

		stack, err := newStack(ctx, cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		opts := cli.RunOptions{
			PagePath:  args[0],
			Format:    format,
			OutDir:    outDir,
			Extension: ext,
			Strict:    strict,
		}
		if watch {
			return cli.RunWatch(ctx, stack, opts, cmd.OutOrStdout())
		}
		return cli.Render(ctx, stack, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text or json")
	renderCmd.Flags().StringP("out", "o", "", "Directory for audio of scenes without a sink")
	renderCmd.Flags().String("ext", "mp3", "File extension used with --out")
	renderCmd.Flags().Bool("strict", false, "Fail on generator output with out-of-order timestamps")
	renderCmd.Flags().BoolP("watch", "w", false, "Render again whenever the page file changes")
}
