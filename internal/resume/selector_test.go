package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    Category
	}{
		{
			name:        "software engineering",
			description: "We are hiring a backend software engineer to build distributed systems and APIs.",
			expected:    CategorySWE,
		},
		{
			name:        "quant",
			description: "Quantitative researcher for a systematic trading desk. Portfolio construction, alpha signals.",
			expected:    CategoryQuant,
		},
		{
			name:        "communication",
			description: "Consulting role working with clients on marketing and sales strategy.",
			expected:    CategoryCommunication,
		},
		{
			name:        "empty input returns default",
			description: "",
			expected:    DefaultCategory,
		},
		{
			name:        "unscored input returns default",
			description: "A completely unrelated paragraph about gardening and cooking.",
			expected:    DefaultCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.description))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	description := "software research" // scores in two buckets
	first := Classify(description)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(description))
	}
}

func TestSelectorAttachment(t *testing.T) {
	dir := t.TempDir()
	swePath := filepath.Join(dir, "swe.pdf")
	require.NoError(t, os.WriteFile(swePath, []byte("pdf"), 0o644))

	s := NewSelector(map[string]string{"swe": swePath})

	path, err := s.Attachment(CategorySWE)
	require.NoError(t, err)
	assert.Equal(t, swePath, path)

	// Unconfigured category falls back to the default category's file.
	path, err = s.Attachment(CategoryQuant)
	require.NoError(t, err)
	assert.Equal(t, swePath, path)
}

func TestSelectorAttachment_MissingFile(t *testing.T) {
	s := NewSelector(map[string]string{"swe": filepath.Join(t.TempDir(), "missing.pdf")})

	_, err := s.Attachment(CategorySWE)
	assert.Error(t, err)
}
