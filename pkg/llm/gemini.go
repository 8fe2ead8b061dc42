package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// GeminiModel is the default Gemini model.
const GeminiModel = "gemini-2.5-flash"

// contentGenerator is the slice of *genai.Models the adapter uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGeminiClient creates a Gemini adapter.
func NewGeminiClient(ctx context.Context, settings Settings) (client *GeminiClient, err error) {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var gc *genai.Client
	gc, err = genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     settings.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		err = errors.Wrap(err, "genai client")
		return client, err
	}

	client = newGeminiClient(gc.Models, settings.Model, settings.Temperature, timeout)
	return client, err
}

func newGeminiClient(models contentGenerator, model string, temperature float64, timeout time.Duration) (client *GeminiClient) {
	if model == "" {
		model = GeminiModel
	}
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client = &GeminiClient{
		models:      models,
		model:       model,
		temperature: float32(temperature),
		timeout:     timeout,
	}
	return client
}

// Generate sends prompt and returns the reply text.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (text string, err error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}

	var resp *genai.GenerateContentResponse
	resp, err = g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			err = &IOError{Kind: kindForStatus(apiErr.Code), Provider: ProviderGemini, StatusCode: apiErr.Code, Cause: err}
			return text, err
		}
		err = transportError(ProviderGemini, err)
		return text, err
	}

	if resp == nil {
		err = &IOError{Kind: ServiceError, Provider: ProviderGemini, Cause: errors.New("nil response")}
		return text, err
	}

	text = resp.Text()
	if text == "" {
		err = &IOError{Kind: ServiceError, Provider: ProviderGemini, Cause: errors.New("no text content in response")}
		return text, err
	}

	return text, err
}
