package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// ClaudeAPIEndpoint is the Anthropic API endpoint.
	ClaudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeModel is the model to use.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeAPIVersion is the API version.
	ClaudeAPIVersion = "2023-06-01"
	// DefaultTemperature keeps rewording conservative.
	DefaultTemperature = 0.3
)

// Client represents a Claude API client.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
	endpoint    string
}

// NewClient creates a new Claude API client.
func NewClient(apiKey, model string) (client *Client) {
	if model == "" {
		model = ClaudeModel
	}
	client = &Client{
		apiKey:      apiKey,
		model:       model,
		temperature: DefaultTemperature,
		timeout:     DefaultTimeout,
		endpoint:    ClaudeAPIEndpoint,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	return client
}

// SetTimeout changes the per-call deadline. Zero keeps the default.
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	c.timeout = timeout
	c.httpClient.Timeout = timeout
}

// SetTemperature changes the sampling temperature. Zero keeps the default.
func (c *Client) SetTemperature(temperature float64) {
	if temperature <= 0 {
		return
	}
	c.temperature = temperature
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (responseText string, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := c.temperature
	claudeReq := ClaudeRequest{
		Model:       c.model,
		MaxTokens:   4096,
		Temperature: &temperature,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(claudeReq)
	if err != nil {
		err = &IOError{Kind: ServiceError, Provider: ProviderClaude, Cause: errors.Wrap(err, "failed to marshal request")}
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = &IOError{Kind: ServiceError, Provider: ProviderClaude, Cause: errors.Wrap(err, "failed to create HTTP request")}
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", ClaudeAPIVersion)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = transportError(ProviderClaude, errors.Wrap(err, "HTTP request failed"))
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = transportError(ProviderClaude, errors.Wrap(err, "failed to read response body"))
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		err = &IOError{
			Kind:       kindForStatus(resp.StatusCode),
			Provider:   ProviderClaude,
			StatusCode: resp.StatusCode,
			Cause:      errors.Errorf("API request failed: %s", string(respBody)),
		}
		return responseText, err
	}

	var claudeResp ClaudeResponse
	err = json.Unmarshal(respBody, &claudeResp)
	if err != nil {
		err = &IOError{Kind: ServiceError, Provider: ProviderClaude, Cause: errors.Wrapf(err, "failed to parse Claude response: %s", string(respBody))}
		return responseText, err
	}

	for _, content := range claudeResp.Content {
		if content.Type == "" || content.Type == "text" {
			responseText += content.Text
		}
	}

	if responseText == "" {
		err = &IOError{Kind: ServiceError, Provider: ProviderClaude, Cause: errors.New("no content in Claude response")}
		return responseText, err
	}

	return responseText, err
}
