package scribe

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	SummarySystemPrompt = "You are a helpful assistant specializing in consolidating information."

	// DefaultSummaryPrompt is used when the caller supplies no prompt.
	DefaultSummaryPrompt = "Summarize the following information from the uploaded files as much detail as possible. Try to put it in the same format."
)

// Summarizer consolidates every text artifact in a workspace into one
// summary via a text-generation backend. The summary is never persisted.
type Summarizer struct {
	ws       *Workspace
	provider Provider
	logger   *slog.Logger
}

// SummarizerOption configures a Summarizer.
type SummarizerOption func(*Summarizer)

// WithSummarizerLogger sets the structured logger.
func WithSummarizerLogger(l *slog.Logger) SummarizerOption {
	return func(s *Summarizer) { s.logger = l }
}

// NewSummarizer creates a summarizer over ws backed by provider.
func NewSummarizer(ws *Workspace, provider Provider, opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		ws:       ws,
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize concatenates all artifacts (filename-sorted, each prefixed by
// a delimiter naming its source file) and asks the backend for one
// consolidated summary. An empty workspace still produces a backend call
// with an empty corpus.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	corpus, files, err := s.buildCorpus()
	if err != nil {
		return "", err
	}
	if prompt == "" {
		prompt = DefaultSummaryPrompt
	}

	start := time.Now()
	s.logger.Info("summarize.start", "files", files, "corpus_chars", len(corpus))

	resp, err := s.provider.Chat(ctx, ChatRequest{Messages: []ChatMessage{
		SystemMessage(SummarySystemPrompt),
		UserMessage(prompt + "\n\n" + corpus),
	}})
	if err != nil {
		s.logger.Error("summarize.failed", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	s.logger.Info("summarize.ok", "summary_chars", len(resp.Content),
		"tokens.input", resp.Usage.InputTokens,
		"tokens.output", resp.Usage.OutputTokens,
		"elapsed_ms", time.Since(start).Milliseconds())
	return resp.Content, nil
}

// buildCorpus joins every artifact in sorted filename order. Content is
// NFC-normalized so the corpus is byte-stable regardless of how the
// extraction backend composed its output.
func (s *Summarizer) buildCorpus() (string, int, error) {
	names, err := s.ws.ListArtifacts()
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	for _, name := range names {
		content, err := s.ws.ReadArtifact(name)
		if err != nil {
			return "", 0, err
		}
		b.WriteString("\n---\nFile: ")
		b.WriteString(name)
		b.WriteString("\n")
		b.WriteString(norm.NFC.String(content))
	}
	return b.String(), len(names), nil
}
