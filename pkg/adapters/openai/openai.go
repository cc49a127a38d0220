// Package openai adapts the OpenAI API to libretto's generation and
// translation contracts. It can also be used with any OpenAI-compatible
// provider by setting WithBaseURL.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/registry"
)

func newClient(apiKey string, cfg config) *oai.Client {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := oai.NewClient(clientOpts...)
	return &client
}

// Speech synthesises scene narration with the text-to-speech endpoint.
type Speech struct {
	client *oai.Client
	cfg    config
}

// NewSpeech creates a speech generator.
func NewSpeech(apiKey string, opts ...Option) *Speech {
	cfg := newConfig(DefaultSpeechModel, opts)
	return &Speech{client: newClient(apiKey, cfg), cfg: cfg}
}

// Generate implements domain.Generator. The audio is handed to cfg.OnData
// and written to cfg.WriteToFile when set. The endpoint returns no timing, so
// the output is a single token with an unknown duration.
func (s *Speech) Generate(ctx context.Context, cfg domain.Config, tokens ...string) (domain.Output, error) {
	text := strings.Join(tokens, " ")
	if text == "" {
		return domain.Output{}, nil
	}

	resp, err := s.client.Audio.Speech.New(ctx, oai.AudioSpeechNewParams{
		Input:          text,
		Model:          oai.SpeechModel(s.cfg.model),
		Voice:          oai.AudioSpeechNewParamsVoice(s.cfg.voice),
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormat(s.cfg.format),
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech (%s): %w", cfg.Language, err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech audio: %w", err)
	}
	if cfg.OnData != nil {
		cfg.OnData(audio)
	}
	if cfg.WriteToFile != "" {
		if err := writeFile(cfg.WriteToFile, audio); err != nil {
			return nil, err
		}
	}

	return domain.Output{{Text: text, StartMs: 0, DurationMs: domain.UnknownDuration}}, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create audio dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return nil
}

// Translator converts authoring tokens with chat completions.
type Translator struct {
	client *oai.Client
	cfg    config
}

// NewTranslator creates a translator.
func NewTranslator(apiKey string, opts ...Option) *Translator {
	cfg := newConfig(DefaultTranslateModel, opts)
	return &Translator{client: newClient(apiKey, cfg), cfg: cfg}
}

const translatePrompt = "You translate narration for a multilingual page. " +
	"The user sends a JSON array of strings written in %s. " +
	"Reply with only a JSON array of the same length containing the %s translation of each string, in order."

// Translate implements domain.Translator.
func (t *Translator) Translate(ctx context.Context, from, to string, tokens ...string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	input, err := json.Marshal(tokens)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: t.cfg.model,
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(fmt.Sprintf(translatePrompt, from, to)),
			oai.UserMessage(string(input)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai translate %s->%s: %w", from, to, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai translate %s->%s: empty response", from, to)
	}

	var out []string
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```json"), "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &out); err != nil {
		return nil, fmt.Errorf("openai translate %s->%s: malformed reply: %w", from, to, err)
	}
	if len(out) != len(tokens) {
		return nil, fmt.Errorf("openai translate %s->%s: got %d strings, want %d", from, to, len(out), len(tokens))
	}
	return out, nil
}

type params struct {
	Model  string `mapstructure:"model"`
	Voice  string `mapstructure:"voice"`
	Format string `mapstructure:"format"`
}

// Register adds the "openai" generator and translator factories to reg.
// Documents may override model, voice and format through params.
func Register(reg *registry.Registry, apiKey string, opts ...Option) {
	reg.Register("openai", func(raw map[string]any) (domain.Generator, error) {
		var p params
		if err := registry.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return NewSpeech(apiKey, slices.Concat(opts, p.options())...).Generate, nil
	})
	reg.RegisterTranslator("openai", func(raw map[string]any) (domain.Translator, error) {
		var p params
		if err := registry.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return NewTranslator(apiKey, slices.Concat(opts, p.options())...).Translate, nil
	})
}

func (p params) options() []Option {
	var opts []Option
	if p.Model != "" {
		opts = append(opts, WithModel(p.Model))
	}
	if p.Voice != "" {
		opts = append(opts, WithVoice(p.Voice))
	}
	if p.Format != "" {
		opts = append(opts, WithFormat(p.Format))
	}
	return opts
}
