package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contentalchemy/alchemy/providers/llm"
)

func TestGenerateUsesGoogHeaderAndModelPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("x-goog-api-key = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}

		var payload generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if payload.SystemInstruction == nil {
			t.Error("SystemInstruction missing")
		}

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "answer"}]}}],
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 4, "totalTokenCount": 7}
		}`))
	}))
	defer server.Close()

	provider := New().WithModel("test-model")
	provider.WithAPIKey("test-key").WithBaseURL(server.URL).WithHttpClient(server.Client())

	result, err := provider.Generate(context.Background(), llm.Request{
		SystemPrompt: "be brief",
		Prompt:       "hello",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Success || result.Content != "answer" {
		t.Errorf("result = %+v", result)
	}
	if result.Usage == nil || result.Usage.TotalTokens != 7 {
		t.Errorf("Usage = %+v", result.Usage)
	}
}

func TestGenerateMissingKey(t *testing.T) {
	provider := New().WithAPIKey("")

	result, err := provider.Generate(context.Background(), llm.Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Success || result.ErrorKind != llm.ErrKindAPIKeyMissing {
		t.Errorf("result = %+v", result)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	provider := New()
	provider.WithAPIKey("key").WithBaseURL(server.URL).WithHttpClient(server.Client())

	if _, err := provider.Generate(context.Background(), llm.Request{Prompt: "hello"}); err == nil {
		t.Error("Generate() error = nil, want error for empty candidates")
	}
}
