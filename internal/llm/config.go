// Package llm provides the generative-service client used for fallback answer
// generation, with provider switching and a bounded in-flight request limit.
package llm

import "time"

// Provider represents a generative text service provider.
type Provider string

// Supported providers.
const (
	// ProviderOllama talks to a locally hosted Ollama endpoint.
	ProviderOllama Provider = "ollama"
	// ProviderGemini uses the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

// Config holds generative-service settings.
type Config struct {
	Provider Provider
	// Model is the model name for the chosen provider.
	Model string
	// BaseURL is the local service endpoint (Ollama only).
	BaseURL string
	// Temperature is kept low so answers stay near-deterministic.
	Temperature float32
	// Timeout bounds one request; expiry degrades to "no answer".
	Timeout time.Duration
	// MaxInFlight bounds concurrent requests to the service.
	MaxInFlight int
}

// DefaultConfig returns the default configuration: a local Ollama service.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOllama,
		Model:       "llama3.2",
		BaseURL:     "http://localhost:11434",
		Temperature: 0.1,
		Timeout:     30 * time.Second,
		MaxInFlight: 4,
	}
}
