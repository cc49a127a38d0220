package openai

import "net/http"

// Defaults for the speech and translation adapters.
const (
	DefaultSpeechModel    = "tts-1"
	DefaultVoice          = "alloy"
	DefaultFormat         = "mp3"
	DefaultTranslateModel = "gpt-4o-mini"
)

// config holds shared configuration for the adapters.
type config struct {
	model      string
	voice      string
	format     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// Option configures an adapter.
type Option func(*config)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithVoice sets the speech voice. Ignored by the translator.
func WithVoice(voice string) Option {
	return func(c *config) { c.voice = voice }
}

// WithFormat sets the audio response format (mp3, opus, aac, flac, wav, pcm).
func WithFormat(format string) Option {
	return func(c *config) { c.format = format }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// WithMaxRetries sets how often the client retries failed requests.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.maxRetries = n }
}

func newConfig(model string, opts []Option) config {
	cfg := config{
		model:      model,
		voice:      DefaultVoice,
		format:     DefaultFormat,
		httpClient: http.DefaultClient,
		maxRetries: 2,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
