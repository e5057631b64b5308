package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nevindra/scribe"
)

func TestChat_SendsRequestAndParsesResponse(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Choices: []Choice{
				{Message: &ChoiceMessage{Role: "assistant", Content: "Summary text"}},
			},
			Usage: &Usage{PromptTokens: 50, CompletionTokens: 10},
		})
	}))
	defer server.Close()

	p := NewProvider("sk-test", "gpt-4o-mini", server.URL,
		WithOptions(WithTemperature(0.1), WithTopP(1), WithMaxTokens(9000)))

	resp, err := p.Chat(context.Background(), scribe.ChatRequest{
		Messages: []scribe.ChatMessage{
			scribe.SystemMessage("You are a helpful assistant specializing in consolidating information."),
			scribe.UserMessage("Summarize the following"),
		},
	})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model: %q", gotBody.Model)
	}
	if gotBody.Temperature == nil || *gotBody.Temperature != 0.1 {
		t.Errorf("provider options not applied: %+v", gotBody)
	}
	if gotBody.MaxTokens != 9000 {
		t.Errorf("expected max_tokens 9000, got %d", gotBody.MaxTokens)
	}
	if resp.Content != "Summary text" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.OutputTokens != 10 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
}

func TestChat_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer server.Close()

	p := NewProvider("", "local-model", server.URL)
	if _, err := p.Chat(context.Background(), scribe.ChatRequest{
		Messages: []scribe.ChatMessage{scribe.UserMessage("Hi")},
	}); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestChat_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	p := NewProvider("bad-key", "gpt-4o-mini", server.URL)
	_, err := p.Chat(context.Background(), scribe.ChatRequest{
		Messages: []scribe.ChatMessage{scribe.UserMessage("Hi")},
	})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	var httpErr *scribe.ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected ErrHTTP, got %T", err)
	}
	if httpErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", httpErr.Status)
	}
}

func TestName_Configurable(t *testing.T) {
	p := NewProvider("k", "m", "http://localhost", WithName("vllm"))
	if p.Name() != "vllm" {
		t.Errorf("expected name vllm, got %q", p.Name())
	}
	if NewProvider("k", "m", "http://localhost").Name() != "openai" {
		t.Error("expected default name openai")
	}
}
