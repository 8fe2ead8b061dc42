// Package llm is the boundary to external text-generation services. Adapters send a prompt and
// return raw text; they never retry, parse or interpret the content.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 120 * time.Second

// Provider names.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Generator sends a prompt and returns the raw text reply. Failures are *IOError.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (text string, err error) {
	text, err = f(ctx, prompt)
	return text, err
}

// Settings selects and configures a Generator.
type Settings struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewGenerator builds the adapter named by settings.Provider.
func NewGenerator(ctx context.Context, settings Settings) (gen Generator, err error) {
	if settings.APIKey == "" {
		err = errors.Errorf("api key is required for provider %q", settings.Provider)
		return gen, err
	}

	switch strings.ToLower(settings.Provider) {
	case "", ProviderClaude, "anthropic":
		client := NewClient(settings.APIKey, settings.Model)
		client.SetTimeout(settings.Timeout)
		client.SetTemperature(settings.Temperature)
		gen = client
	case ProviderGemini, "google":
		gen, err = NewGeminiClient(ctx, settings)
		if err != nil {
			err = errors.Wrap(err, "failed to create gemini client")
			return gen, err
		}
	default:
		err = errors.Errorf("unknown generation provider: %s", settings.Provider)
	}

	return gen, err
}
