package domain

import (
	"context"
	"fmt"
)

// UnknownDuration marks a token whose duration was not computed.
// Consumers must not treat it as a length of time.
const UnknownDuration int64 = -1

// Token is a unit of narration text with its timing in milliseconds.
type Token struct {
	Text       string `json:"text" yaml:"text"`
	StartMs    int64  `json:"startMs" yaml:"start_ms"`
	DurationMs int64  `json:"durationMs" yaml:"duration_ms"`
}

// HasDuration reports whether the token carries a computed duration.
func (t Token) HasDuration() bool {
	return t.DurationMs != UnknownDuration
}

// Output is the ordered result of one generation call.
// Its length is chosen by the generator and need not match the input tokens.
type Output []Token

// Validate checks the timing contract: start offsets never decrease and
// every duration is either non-negative or UnknownDuration.
func (o Output) Validate() error {
	for i, tok := range o {
		if tok.DurationMs < 0 && tok.DurationMs != UnknownDuration {
			return fmt.Errorf("token %d (%q): %w: %d", i, tok.Text, ErrInvalidDuration, tok.DurationMs)
		}
		if i > 0 && tok.StartMs < o[i-1].StartMs {
			return fmt.Errorf("token %d (%q) starts at %dms before %dms: %w",
				i, tok.Text, tok.StartMs, o[i-1].StartMs, ErrTimestampOrder)
		}
	}
	return nil
}

// End returns the offset at which the last timed token finishes.
// Tokens with an unknown duration contribute only their start offset.
func (o Output) End() int64 {
	var end int64
	for _, tok := range o {
		e := tok.StartMs
		if tok.HasDuration() {
			e += tok.DurationMs
		}
		if e > end {
			end = e
		}
	}
	return end
}

// Sink holds the optional raw-output options passed to a generator.
type Sink struct {
	// WriteToFile asks the generator to write its raw output (e.g. audio) to
	// this path. "{scene}" and "{language}" are replaced by the runtime.
	WriteToFile string
	// OnData receives raw output chunks as they are produced.
	OnData func(chunk []byte)
}

// Config binds a generation call to one supported language.
type Config struct {
	Language    string
	WriteToFile string
	OnData      func(chunk []byte)
}

// Generator produces timestamped narration for the given tokens.
type Generator func(ctx context.Context, cfg Config, tokens ...string) (Output, error)

// Translator converts authoring tokens into the target language.
// The returned slice replaces the input tokens for narration.
type Translator func(ctx context.Context, from, to string, tokens ...string) ([]string, error)
