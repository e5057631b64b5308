// Package gemini implements the Google Gemini extraction provider.
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nevindra/scribe"
)

var baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini implements scribe.Provider for Google Gemini models.
// Defaults are tuned for document extraction: low temperature,
// plain-text responses, generous output budget.
type Gemini struct {
	apiKey     string
	model      string
	httpClient *http.Client

	temperature     float64
	topP            float64
	topK            int
	maxOutputTokens int
}

// New creates a new Gemini provider with functional options.
func New(apiKey, model string, opts ...Option) *Gemini {
	g := &Gemini{
		apiKey:          apiKey,
		model:           model,
		httpClient:      &http.Client{},
		temperature:     0.1,
		topP:            0.95,
		topK:            40,
		maxOutputTokens: 8192,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns "gemini".
func (g *Gemini) Name() string { return "gemini" }

// Chat sends a generateContent request and returns the complete response.
func (g *Gemini) Chat(ctx context.Context, req scribe.ChatRequest) (scribe.ChatResponse, error) {
	body := g.buildBody(req.Messages)
	return g.doGenerate(ctx, body)
}

// doGenerate performs a non-streaming generateContent call and parses the response.
func (g *Gemini) doGenerate(ctx context.Context, body map[string]any) (scribe.ChatResponse, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, g.model, g.apiKey)

	payload, err := json.Marshal(body)
	if err != nil {
		return scribe.ChatResponse{}, g.wrapErr("marshal body: " + err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return scribe.ChatResponse{}, g.wrapErr("create request: " + err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return scribe.ChatResponse{}, g.wrapErr("request failed: " + err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return scribe.ChatResponse{}, g.wrapErr("failed to read response body: " + err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return scribe.ChatResponse{}, &scribe.ErrHTTP{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return scribe.ChatResponse{}, g.wrapErr("failed to parse response JSON: " + err.Error())
	}

	var content strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			if part.Text != nil {
				content.WriteString(*part.Text)
			}
		}
	}

	var usage scribe.Usage
	if parsed.UsageMetadata != nil {
		usage.InputTokens = parsed.UsageMetadata.PromptTokenCount
		usage.OutputTokens = parsed.UsageMetadata.CandidatesTokenCount
	}

	return scribe.ChatResponse{
		Content: content.String(),
		Usage:   usage,
	}, nil
}

func (g *Gemini) wrapErr(msg string) error {
	return &scribe.ErrLLM{Provider: "gemini", Message: msg}
}

// ---- Body builder ----

// buildBody constructs the Gemini API request body from chat messages.
// System messages are accumulated into systemInstruction; attachments
// become fileData (URL) or inlineData (base64) parts.
func (g *Gemini) buildBody(messages []scribe.ChatMessage) map[string]any {
	var systemParts []string
	var contents []map[string]any

	for _, m := range messages {
		if m.Role == "system" {
			systemParts = append(systemParts, m.Content)
			continue
		}

		var parts []map[string]any

		if m.Content != "" {
			parts = append(parts, map[string]any{"text": m.Content})
		}

		for _, att := range m.Attachments {
			if att.URL != "" {
				parts = append(parts, map[string]any{
					"fileData": map[string]any{
						"mimeType": att.MimeType,
						"fileUri":  att.URL,
					},
				})
			} else if data := att.InlineData(); len(data) > 0 {
				parts = append(parts, map[string]any{
					"inlineData": map[string]any{
						"mimeType": att.MimeType,
						"data":     base64.StdEncoding.EncodeToString(data),
					},
				})
			}
		}

		// Gemini requires at least one part.
		if len(parts) == 0 {
			parts = append(parts, map[string]any{"text": ""})
		}

		contents = append(contents, map[string]any{
			"role":  mapRole(m.Role),
			"parts": parts,
		})
	}

	body := map[string]any{
		"contents": contents,
	}

	if len(systemParts) > 0 {
		combined := strings.Join(systemParts, "\n\n")
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{
				{"text": combined},
			},
		}
	}

	body["generationConfig"] = map[string]any{
		"temperature":      g.temperature,
		"topP":             g.topP,
		"topK":             g.topK,
		"maxOutputTokens":  g.maxOutputTokens,
		"responseMimeType": "text/plain",
	}

	return body
}

// mapRole converts standard roles to Gemini API roles.
func mapRole(role string) string {
	if role == "assistant" {
		return "model"
	}
	return role
}

// ---- Response parsing types ----

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata *geminiUsage      `json:"usageMetadata"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role"`
}

type geminiPart struct {
	Text *string `json:"text,omitempty"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

// Compile-time interface assertions.
var (
	_ scribe.Provider     = (*Gemini)(nil)
	_ scribe.FileUploader = (*Gemini)(nil)
)
