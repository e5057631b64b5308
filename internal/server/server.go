// Package server exposes the ingestion pipeline over HTTP: multipart
// uploads in, text artifacts and consolidated summaries out.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nevindra/scribe"
	"github.com/nevindra/scribe/observer"
)

// Processor turns one staged input file into a text artifact.
type Processor interface {
	Process(ctx context.Context, filename string) (string, error)
}

// Summarizer consolidates a workspace's artifacts into one summary.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// ProcessorFactory builds a Processor bound to a session workspace.
type ProcessorFactory func(ws *scribe.Workspace) Processor

// SummarizerFactory builds a Summarizer bound to a session workspace.
type SummarizerFactory func(ws *scribe.Workspace) Summarizer

const defaultMaxUploadBytes = 32 << 20 // 32MB

// Server routes HTTP requests to per-session pipelines.
type Server struct {
	sessions      *scribe.SessionManager
	newProcessor  ProcessorFactory
	newSummarizer SummarizerFactory

	maxUploadBytes int64
	logger         *slog.Logger
	inst           *observer.Instruments
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes caps the total size of a multipart upload request.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) { s.maxUploadBytes = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithInstruments enables pipeline metrics.
func WithInstruments(inst *observer.Instruments) Option {
	return func(s *Server) { s.inst = inst }
}

// New creates a Server over sessions. The factories bind a pipeline to
// each session's workspace on demand.
func New(sessions *scribe.SessionManager, newProcessor ProcessorFactory, newSummarizer SummarizerFactory, opts ...Option) *Server {
	s := &Server{
		sessions:       sessions,
		newProcessor:   newProcessor,
		newSummarizer:  newSummarizer,
		maxUploadBytes: defaultMaxUploadBytes,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for all pipeline routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/process", s.requirePost(s.handleProcess))
	mux.HandleFunc("/summarize", s.requirePost(s.handleSummarize))
	mux.HandleFunc("/clear", s.requirePost(s.handleClear))
	mux.HandleFunc("/check_text_files", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleCheckTextFiles(w, r)
	})
	mux.HandleFunc("/health", handleHealth)
	return s.logRequests(mux)
}

func (s *Server) requirePost(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	}
}

// logRequests logs one line per request with a generated request id.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := scribe.NewID()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http.request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// sessionID resolves the session key for a request: the X-Session-ID
// header wins, then the "session" form value. Empty means the default
// session.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return r.FormValue("session")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
