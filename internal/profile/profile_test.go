package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *Profile {
	return &Profile{Values: map[string]string{
		"first_name":     "Ada",
		"last_name":      "Lovelace",
		"email":          "ada@example.com",
		"country":        "United Kingdom",
		"us_sponsorship": "yes",
		"uk_sponsorship": "no",
	}}
}

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	content := `{"values": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", p.Email())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"missing first name", map[string]string{"last_name": "L", "email": "a@b.com"}},
		{"bad email", map[string]string{"first_name": "A", "last_name": "L", "email": "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Values: tt.values}
			assert.Error(t, p.Validate())
		})
	}
}

func TestSponsorship_CountryDetection(t *testing.T) {
	p := testProfile()

	v, ok := p.Sponsorship("Will you require sponsorship to work in the United States?")
	require.True(t, ok)
	assert.Equal(t, "yes", v)

	v, ok = p.Sponsorship("Do you need sponsorship in the United Kingdom?")
	require.True(t, ok)
	assert.Equal(t, "no", v)
}

func TestSponsorship_FallsBackToOwnCountry(t *testing.T) {
	p := testProfile()

	// No country token in the question; the applicant is UK-based.
	v, ok := p.Sponsorship("Do you require visa sponsorship?")
	require.True(t, ok)
	assert.Equal(t, "no", v)
}

func TestWorkAuthorization_InvertsSponsorship(t *testing.T) {
	p := testProfile()

	v, ok := p.WorkAuthorization("Are you authorized to work in the United States?")
	require.True(t, ok)
	assert.Equal(t, "No", v)

	v, ok = p.WorkAuthorization("Are you legally authorized to work in the United Kingdom?")
	require.True(t, ok)
	assert.Equal(t, "Yes", v)
}
