// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Waits are the barrier pause bounds, in milliseconds. Zero values fall back
// to built-in defaults.
type Waits struct {
	BannerMs       int `json:"banner_ms,omitempty"`
	NavigationMs   int `json:"navigation_ms,omitempty"`
	FormMs         int `json:"form_ms,omitempty"`
	SubmitVerifyMs int `json:"submit_verify_ms,omitempty"`
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Profile string `json:"profile,omitempty"` // Path to the applicant profile JSON
	Sites   string `json:"sites,omitempty"`   // Path to site configuration overrides
	Links   string `json:"links,omitempty"`   // Path to the candidate links file

	// Resumes maps resume categories (swe, quant, communication) to PDF paths.
	Resumes map[string]string `json:"resumes,omitempty"`

	// Persistence
	VisitDB     string `json:"visit_db,omitempty"`     // SQLite visit database path
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL, overrides VisitDB

	// Generative fallback
	LLMProvider    string  `json:"llm_provider,omitempty"`    // ollama or gemini
	LLMModel       string  `json:"llm_model,omitempty"`       // Model name
	LLMBaseURL     string  `json:"llm_base_url,omitempty"`    // Ollama endpoint
	APIKey         string  `json:"api_key,omitempty"`         // Gemini API key
	LLMTemperature float64 `json:"llm_temperature,omitempty"` // Sampling temperature (0.0-1.0)
	LLMTimeoutMs   int     `json:"llm_timeout_ms,omitempty"`  // Per-request timeout
	LLMMaxInFlight int     `json:"llm_max_in_flight,omitempty"`

	// Behavior. Headless and SkipVisited are pointers so a file that omits
	// them is distinguishable from one that sets them to false; both default
	// to true.
	Headless      *bool `json:"headless,omitempty"`       // Run the browser headless
	Verbose       bool  `json:"verbose,omitempty"`        // Print detailed debug information
	SkipVisited   *bool `json:"skip_visited,omitempty"`   // Skip URLs already applied to
	MaxConcurrent int   `json:"max_concurrent,omitempty"` // Parallel application runs
	Waits         Waits `json:"waits,omitempty"`
}

// HeadlessEnabled reports whether the browser runs headless. Unset means yes.
func (c *Config) HeadlessEnabled() bool {
	return c.Headless == nil || *c.Headless
}

// SkipVisitedEnabled reports whether URLs already recorded as successful are
// skipped. Unset means yes.
func (c *Config) SkipVisitedEnabled() bool {
	return c.SkipVisited == nil || *c.SkipVisited
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		VisitDB:       "visits.db",
		LLMProvider:   "ollama",
		LLMModel:      "llama3.2",
		LLMBaseURL:    "http://localhost:11434",
		Headless:      boolPtr(true),
		SkipVisited:   boolPtr(true),
		MaxConcurrent: 1,
	}
}

func boolPtr(v bool) *bool { return &v }

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "", "ollama", "gemini":
	default:
		return fmt.Errorf("config error: unknown llm_provider %q", c.LLMProvider)
	}

	if c.LLMTemperature < 0 || c.LLMTemperature > 1 {
		return fmt.Errorf("config error: 'llm_temperature' must be between 0.0 and 1.0")
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("config error: 'max_concurrent' must be non-negative")
	}
	if c.LLMTimeoutMs < 0 {
		return fmt.Errorf("config error: 'llm_timeout_ms' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}
	if c.Sites != "" {
		if _, err := os.Stat(c.Sites); os.IsNotExist(err) {
			return fmt.Errorf("config error: sites file not found: %s", c.Sites)
		}
	}
	if c.Links != "" {
		if _, err := os.Stat(c.Links); os.IsNotExist(err) {
			return fmt.Errorf("config error: links file not found: %s", c.Links)
		}
	}
	for category, path := range c.Resumes {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume for category %q not found: %s", category, path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Sites == "" {
		result.Sites = defaults.Sites
	}
	if result.Links == "" {
		result.Links = defaults.Links
	}
	if len(result.Resumes) == 0 {
		result.Resumes = defaults.Resumes
	}
	if result.VisitDB == "" {
		result.VisitDB = defaults.VisitDB
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.LLMModel == "" {
		result.LLMModel = defaults.LLMModel
	}
	if result.LLMBaseURL == "" {
		result.LLMBaseURL = defaults.LLMBaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.LLMTemperature == 0 {
		result.LLMTemperature = defaults.LLMTemperature
	}
	if result.LLMTimeoutMs == 0 {
		result.LLMTimeoutMs = defaults.LLMTimeoutMs
	}
	if result.LLMMaxInFlight == 0 {
		result.LLMMaxInFlight = defaults.LLMMaxInFlight
	}
	if result.Headless == nil {
		result.Headless = defaults.Headless
	}
	if result.SkipVisited == nil {
		result.SkipVisited = defaults.SkipVisited
	}
	if result.MaxConcurrent == 0 {
		result.MaxConcurrent = defaults.MaxConcurrent
	}
	if result.Waits.BannerMs == 0 {
		result.Waits.BannerMs = defaults.Waits.BannerMs
	}
	if result.Waits.NavigationMs == 0 {
		result.Waits.NavigationMs = defaults.Waits.NavigationMs
	}
	if result.Waits.FormMs == 0 {
		result.Waits.FormMs = defaults.Waits.FormMs
	}
	if result.Waits.SubmitVerifyMs == 0 {
		result.Waits.SubmitVerifyMs = defaults.Waits.SubmitVerifyMs
	}

	return result
}
