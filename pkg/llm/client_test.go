package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func claudeServer(t *testing.T, status int, body string) (server *httptest.Server) {
	t.Helper()

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
			return
		}

		claudeResp := ClaudeResponse{
			ID:   "test-id",
			Type: "message",
			Role: "assistant",
			Content: []Content{
				{
					Type: "text",
					Text: body,
				},
			},
			Model: ClaudeModel,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(claudeResp)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestNewClient(t *testing.T) {
	apiKey := "test-api-key"
	model := "claude-sonnet-4-20250514"
	client := NewClient(apiKey, model)

	if client == nil {
		t.Fatal("Expected non-nil client")
	}

	if client.apiKey != apiKey {
		t.Errorf("Expected API key '%s', got '%s'", apiKey, client.apiKey)
	}

	if client.model != model {
		t.Errorf("Expected model '%s', got '%s'", model, client.model)
	}

	if client.endpoint != ClaudeAPIEndpoint {
		t.Errorf("Expected endpoint '%s', got '%s'", ClaudeAPIEndpoint, client.endpoint)
	}

	if client.timeout != DefaultTimeout {
		t.Errorf("Expected timeout %s, got %s", DefaultTimeout, client.timeout)
	}

	if client.httpClient == nil {
		t.Error("Expected non-nil HTTP client")
	}
}

func TestNewClientDefaultModel(t *testing.T) {
	client := NewClient("key", "")

	if client.model != ClaudeModel {
		t.Errorf("Expected default model '%s', got '%s'", ClaudeModel, client.model)
	}
}

func TestGenerate(t *testing.T) {
	reply := `{"summary": "Go platform engineer."}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request.
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Error("Missing or incorrect API key header")
		}

		if r.Header.Get("Anthropic-Version") != ClaudeAPIVersion {
			t.Error("Missing or incorrect API version header")
		}

		var req ClaudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		if len(req.Messages) != 1 || req.Messages[0].Content != "tailor this" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		if req.Temperature == nil || *req.Temperature != DefaultTemperature {
			t.Error("Expected default temperature in request")
		}

		claudeResp := ClaudeResponse{
			Content: []Content{
				{
					Type: "text",
					Text: reply,
				},
			},
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(claudeResp)
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	text, err := client.Generate(context.Background(), "tailor this")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Raw text is returned untouched.
	if text != reply {
		t.Errorf("Expected '%s', got '%s'", reply, text)
	}
}

func TestGenerateReturnsProseVerbatim(t *testing.T) {
	server := claudeServer(t, http.StatusOK, "```json\nSure! Here you go.\n```")

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	text, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasPrefix(text, "```json") {
		t.Errorf("Adapter should not strip fences, got '%s'", text)
	}
}

func TestAPIErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   IOErrorKind
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, kind: RateLimited},
		{name: "request timeout", status: http.StatusRequestTimeout, kind: Timeout},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, kind: Timeout},
		{name: "bad request", status: http.StatusBadRequest, kind: ServiceError},
		{name: "overloaded", status: 529, kind: ServiceError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := claudeServer(t, tc.status, `{"error": "nope"}`)

			client := NewClient("test-key", "")
			client.endpoint = server.URL

			_, err := client.Generate(context.Background(), "prompt")
			if err == nil {
				t.Fatal("Expected error")
			}

			var ioErr *IOError
			if !errors.As(err, &ioErr) {
				t.Fatalf("Expected *IOError, got %T", err)
			}

			if ioErr.Kind != tc.kind {
				t.Errorf("Expected kind %s, got %s", tc.kind, ioErr.Kind)
			}

			if ioErr.StatusCode != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, ioErr.StatusCode)
			}

			if !strings.Contains(err.Error(), "nope") {
				t.Errorf("Error should carry the response body, got: %v", err)
			}
		})
	}
}

func TestEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claudeResp := ClaudeResponse{
			Content: []Content{},
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(claudeResp)
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for empty content")
	}

	if !strings.Contains(err.Error(), "no content") {
		t.Errorf("Expected 'no content' error, got: %v", err)
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Kind != ServiceError {
		t.Errorf("Expected service_error IOError, got %v", err)
	}
}

func TestMalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	_, err := client.Generate(context.Background(), "prompt")

	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Kind != ServiceError {
		t.Errorf("Expected service_error IOError, got %v", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL
	client.SetTimeout(100 * time.Millisecond)

	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error from timeout")
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected *IOError, got %T", err)
	}

	if ioErr.Kind != Timeout {
		t.Errorf("Expected timeout kind, got %s", ioErr.Kind)
	}

	if !ioErr.Temporary() {
		t.Error("Timeout should be temporary")
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "prompt")
	if err == nil {
		t.Error("Expected error from context cancellation")
	}
}

func TestSetTimeoutIgnoresZero(t *testing.T) {
	client := NewClient("key", "")
	client.SetTimeout(0)
	client.SetTemperature(0)

	if client.timeout != DefaultTimeout {
		t.Errorf("Expected default timeout, got %s", client.timeout)
	}

	if client.temperature != DefaultTemperature {
		t.Errorf("Expected default temperature, got %v", client.temperature)
	}
}
