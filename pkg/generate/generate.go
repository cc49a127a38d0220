// Package generate provides built-in generators that need no external
// service: fixed outputs for fixtures and a reading-speed estimate for
// previews.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/registry"
)

// ErrNoOutput is returned by Static for a language it has no output for.
var ErrNoOutput = errors.New("no output for language")

// DefaultWPM is the reading speed used when none is given.
const DefaultWPM = 150

// Static returns the same output for every call in a given language.
// The input tokens are ignored.
func Static(outputs map[string]domain.Output) domain.Generator {
	return func(ctx context.Context, cfg domain.Config, _ ...string) (domain.Output, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, ok := outputs[cfg.Language]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoOutput, cfg.Language)
		}
		return append(domain.Output(nil), out...), nil
	}
}

// Estimate emits one token per input token, timed as if read aloud at wpm
// words per minute. Offsets are cumulative, so the output always passes
// domain.Output.Validate.
func Estimate(wpm int) domain.Generator {
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	msPerWord := int64(60000 / wpm)
	return func(ctx context.Context, _ domain.Config, tokens ...string) (domain.Output, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make(domain.Output, 0, len(tokens))
		var at int64
		for _, tok := range tokens {
			d := int64(len(strings.Fields(tok))) * msPerWord
			out = append(out, domain.Token{Text: tok, StartMs: at, DurationMs: d})
			at += d
		}
		return out, nil
	}
}

type staticToken struct {
	Text       string `mapstructure:"text"`
	StartMs    int64  `mapstructure:"startMs"`
	DurationMs *int64 `mapstructure:"durationMs"`
}

type staticParams struct {
	Outputs map[string][]staticToken `mapstructure:"outputs"`
}

type estimateParams struct {
	WPM int `mapstructure:"wpm"`
}

// Register adds the "static" and "estimate" factories to reg.
// defaultWPM is used by "estimate" when a document sets no rate.
func Register(reg *registry.Registry, defaultWPM int) {
	reg.Register("static", func(params map[string]any) (domain.Generator, error) {
		var p staticParams
		if err := registry.DecodeParams(params, &p); err != nil {
			return nil, err
		}
		outputs := make(map[string]domain.Output, len(p.Outputs))
		for lang, toks := range p.Outputs {
			out := make(domain.Output, len(toks))
			for i, tok := range toks {
				out[i] = domain.Token{Text: tok.Text, StartMs: tok.StartMs, DurationMs: domain.UnknownDuration}
				if tok.DurationMs != nil {
					out[i].DurationMs = *tok.DurationMs
				}
			}
			if err := out.Validate(); err != nil {
				return nil, fmt.Errorf("outputs[%s]: %w", lang, err)
			}
			outputs[lang] = out
		}
		return Static(outputs), nil
	})

	reg.Register("estimate", func(params map[string]any) (domain.Generator, error) {
		p := estimateParams{WPM: defaultWPM}
		if err := registry.DecodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.WPM <= 0 {
			return nil, fmt.Errorf("wpm must be positive, got %d", p.WPM)
		}
		return Estimate(p.WPM), nil
	})
}
