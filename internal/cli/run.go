package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/internal/presentation/tui"
	"github.com/aretw0/libretto/pkg/domain"
)

// Output formats for the render command.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// RunOptions contains all the configuration for the render command.
type RunOptions struct {
	PagePath string
	Format   string
	// OutDir, when set, gives scenes without a sink a file pattern under it.
	OutDir string
	// Extension of sink files created through OutDir. Defaults to "mp3".
	Extension string
	Strict    bool
}

// Rendered is one (scene, language) result as printed by the render command.
type Rendered struct {
	Scene    int           `json:"scene"`
	Language string        `json:"language"`
	Output   domain.Output `json:"output"`
}

// RenderResult is the JSON document printed by `render --format json`.
type RenderResult struct {
	Page    string     `json:"page"`
	Outputs []Rendered `json:"outputs"`
}

// Render compiles and renders the page at opts.PagePath, writing each result
// to w as it is produced (text) or once the page is done (json).
func Render(ctx context.Context, stack *Stack, opts RunOptions, w io.Writer) error {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Format != FormatText && opts.Format != FormatJSON {
		return fmt.Errorf("unknown output format %q (want text or json)", opts.Format)
	}

	var loadOpts []libretto.LoadOption
	if opts.OutDir != "" {
		loadOpts = append(loadOpts, libretto.WithDefaultSink(outDirPattern(opts.OutDir, opts.Extension)))
	}
	page, err := libretto.LoadPage(opts.PagePath, stack.Registry, loadOpts...)
	if err != nil {
		return err
	}

	engine := stack.Engine
	if opts.Strict {
		engine = libretto.New(stack.engineOptions(libretto.WithStrictTimestamps(true))...)
	}

	result := RenderResult{Page: page.Name, Outputs: []Rendered{}}
	_, err = engine.RenderPage(ctx, page, func(index int, language string, out domain.Output) {
		if opts.Format == FormatJSON {
			result.Outputs = append(result.Outputs, Rendered{Scene: index, Language: language, Output: out})
			return
		}
		writeText(w, index, language, out)
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", page.Name, err)
	}

	if opts.Format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintln(w, tui.Status(w, true, "done"), page.Name)
	return nil
}

func writeText(w io.Writer, index int, language string, out domain.Output) {
	fmt.Fprintf(w, "scene %d [%s]\n", index, language)
	if len(out) == 0 {
		fmt.Fprintln(w, "  (silent)")
	}
	for _, tok := range out {
		if tok.HasDuration() {
			fmt.Fprintf(w, "  %6dms +%dms  %s\n", tok.StartMs, tok.DurationMs, tok.Text)
		} else {
			fmt.Fprintf(w, "  %6dms  %s\n", tok.StartMs, tok.Text)
		}
	}
}

// outDirPattern is the sink pattern of scenes rendered with --out.
func outDirPattern(dir, ext string) string {
	if ext == "" {
		ext = "mp3"
	}
	return filepath.Join(dir, "{page}-{scene}-{language}."+ext)
}
