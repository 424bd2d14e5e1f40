package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/autoapply/internal/jobinfo"
	"github.com/jonathan/autoapply/internal/profile"
)

type stubClient struct {
	answer string
	err    error
	calls  int
}

func (s *stubClient) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.answer, s.err
}

func (s *stubClient) Close() error { return nil }

func testProfile() *profile.Profile {
	return &profile.Profile{Values: map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"school":     "Cambridge",
	}}
}

func TestAsk_ReturnsTrimmedAnswer(t *testing.T) {
	stub := &stubClient{answer: "  Yes  "}
	r := NewResponder(stub, testProfile(), 2, false)

	answer := r.Ask(context.Background(), "Do you consent?", nil, "")
	assert.Equal(t, "Yes", answer)
	assert.Equal(t, 1, stub.calls)
}

func TestAsk_ServiceErrorDegradesToEmpty(t *testing.T) {
	stub := &stubClient{err: &ServiceUnavailableError{Message: "down"}}
	r := NewResponder(stub, testProfile(), 2, false)

	assert.Equal(t, "", r.Ask(context.Background(), "Why us?", nil, ""))
}

func TestAsk_EmptyQuestionSkipsService(t *testing.T) {
	stub := &stubClient{answer: "anything"}
	r := NewResponder(stub, testProfile(), 2, false)

	assert.Equal(t, "", r.Ask(context.Background(), "   ", nil, ""))
	assert.Equal(t, 0, stub.calls)
}

func TestBuildPrompt_IncludesProfileAndJobContext(t *testing.T) {
	r := NewResponder(&stubClient{}, testProfile(), 1, false)
	jc := &jobinfo.JobContext{Title: "Software Engineer", CompanyName: "Acme"}

	prompt := r.buildPrompt("Why do you want this role?", jc, "ref text")
	assert.Contains(t, prompt, "first name: Ada")
	assert.Contains(t, prompt, "Company: Acme")
	assert.Contains(t, prompt, "Job Title: Software Engineer")
	assert.Contains(t, prompt, "ref text")
	assert.Contains(t, prompt, `"Why do you want this role?"`)
}

func TestOllamaClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/api/generate", req.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "No"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewOllamaClient(cfg)

	answer, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "No", answer)
}

func TestOllamaClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewOllamaClient(cfg)

	_, err := client.Generate(context.Background(), "prompt")
	var unavailable *ServiceUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestOllamaClient_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	cfg.Timeout = 500 * time.Millisecond
	client := NewOllamaClient(cfg)

	_, err := client.Generate(context.Background(), "prompt")
	var unavailable *ServiceUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestTruncatePromptKeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 10) // two bytes per rune

	got := truncatePrompt(s, 9)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 4), got)

	assert.Equal(t, s, truncatePrompt(s, len(s)))
}
