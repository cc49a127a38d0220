package main

import (
	"fmt"
	"os"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/pkg/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <page.yaml>",
	Short: "Export a page as Markdown or HTML",
	Long: `Writes the page as a Markdown outline, or as an HTML document. With --render the
HTML carries the timed narration of every scene and language; otherwise
outputs already in the configured store are used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		render, _ := cmd.Flags().GetBool("render")
		outPath, _ := cmd.Flags().GetString("output")

		stack, err := newStack(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		page, err := libretto.LoadPage(args[0], stack.Registry)
		if err != nil {
			return err
		}

		var doc string
		switch format {
		case "markdown", "md":
			doc = export.Markdown(page)
		case "html":
			outputs := export.Outputs{}
			if render {
				if _, err := stack.Engine.RenderPage(cmd.Context(), page, outputs.Add); err != nil {
					return err
				}
			} else if stack.Store != nil {
				records, err := stack.Store.List(cmd.Context(), page.Name)
				if err != nil {
					return err
				}
				outputs = export.OutputsFromRecords(records)
			}
			doc = export.HTML(page, outputs)
		default:
			return fmt.Errorf("unknown export format %q (want markdown or html)", format)
		}

		if outPath == "" || outPath == "-" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
			return err
		}
		return os.WriteFile(outPath, []byte(doc), 0644)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", "markdown", "Export format: markdown or html")
	exportCmd.Flags().Bool("render", false, "Render the page to include narration timings (html)")
	exportCmd.Flags().StringP("output", "o", "-", "Write to a file instead of stdout")
}
