package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OllamaClient implements Client against a locally hosted Ollama service.
// The client is stateless and safe to share across concurrent runs.
type OllamaClient struct {
	config     *Config
	httpClient *http.Client
}

// NewOllamaClient creates a client for the configured local endpoint.
func NewOllamaClient(config *Config) *OllamaClient {
	return &OllamaClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Generate sends one synchronous generation request.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: c.config.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceUnavailableError{Message: "generative service unreachable", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServiceUnavailableError{
			Message: fmt.Sprintf("generative service returned status %d", resp.StatusCode),
		}
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	answer := strings.TrimSpace(decoded.Response)
	if answer == "" {
		return "", &ServiceUnavailableError{Message: "generative service returned empty output"}
	}
	return answer, nil
}

// Close is a no-op; the underlying HTTP client holds no resources.
func (c *OllamaClient) Close() error {
	return nil
}
