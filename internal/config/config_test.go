package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"profile": "profile.json",
		"llm_provider": "ollama",
		"llm_model": "llama3.2",
		"max_concurrent": 3,
		"skip_visited": true,
		"waits": {"banner_ms": 1000}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "profile.json", cfg.Profile)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.Equal(t, 3, cfg.MaxConcurrent)
	require.NotNil(t, cfg.SkipVisited)
	assert.True(t, *cfg.SkipVisited)
	assert.Equal(t, 1000, cfg.Waits.BannerMs)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  DefaultConfig(),
		},
		{
			name:    "unknown provider",
			cfg:     Config{LLMProvider: "gpt9"},
			wantErr: "llm_provider",
		},
		{
			name:    "temperature out of range",
			cfg:     Config{LLMTemperature: 1.5},
			wantErr: "llm_temperature",
		},
		{
			name:    "negative concurrency",
			cfg:     Config{MaxConcurrent: -1},
			wantErr: "max_concurrent",
		},
		{
			name:    "missing profile file",
			cfg:     Config{Profile: "/nonexistent/profile.json"},
			wantErr: "profile file not found",
		},
		{
			name:    "missing resume file",
			cfg:     Config{Resumes: map[string]string{"swe": "/nonexistent/resume.pdf"}},
			wantErr: "resume for category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{LLMModel: "mistral", MaxConcurrent: 4}
	merged := cfg.MergeWithDefaults(DefaultConfig())

	// Explicit values survive.
	assert.Equal(t, "mistral", merged.LLMModel)
	assert.Equal(t, 4, merged.MaxConcurrent)

	// Gaps fill from defaults.
	assert.Equal(t, "ollama", merged.LLMProvider)
	assert.Equal(t, "visits.db", merged.VisitDB)
	assert.Equal(t, "http://localhost:11434", merged.LLMBaseURL)
}

func TestMergeWithDefaults_BooleanDefaultsSurvive(t *testing.T) {
	// A run with no config file, or a file omitting the keys, must keep the
	// documented skip-visited and headless defaults.
	cfg := Config{}
	merged := cfg.MergeWithDefaults(DefaultConfig())

	assert.True(t, merged.SkipVisitedEnabled())
	assert.True(t, merged.HeadlessEnabled())
}

func TestMergeWithDefaults_ExplicitFalseSurvives(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"headless": false, "skip_visited": false}`))
	require.NoError(t, err)

	merged := cfg.MergeWithDefaults(DefaultConfig())
	assert.False(t, merged.HeadlessEnabled())
	assert.False(t, merged.SkipVisitedEnabled())
}
