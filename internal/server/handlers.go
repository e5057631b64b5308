package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/nevindra/scribe"
	"github.com/nevindra/scribe/observer"
	"go.opentelemetry.io/otel/metric"
)

// summarizeRequest is the parsed body of POST /summarize.
type summarizeRequest struct {
	Prompt  string `json:"prompt"`
	Session string `json:"session"`
}

// handleProcess accepts one or more uploads under the multipart field
// "file", stages them in the session workspace, and extracts each into a
// text artifact. One file failing does not stop the others; per-file
// outcomes are reported in the results array.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, scribe.ErrNoFiles.Error())
		return
	}

	sess, err := s.sessions.Get(sessionID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Lock()
	defer sess.Unlock()

	proc := s.newProcessor(sess.Workspace)

	results := make([]scribe.ProcessResult, 0, len(files))
	for _, fh := range files {
		if fh.Filename == "" {
			results = append(results, scribe.ProcessResult{Error: "missing filename"})
			continue
		}
		result := scribe.ProcessResult{File: fh.Filename}

		f, err := fh.Open()
		if err != nil {
			result.Error = "open upload: " + err.Error()
			results = append(results, result)
			continue
		}
		_, saveErr := sess.Workspace.SaveUpload(fh.Filename, f)
		f.Close()
		if saveErr != nil {
			result.Error = saveErr.Error()
			results = append(results, result)
			continue
		}

		out, err := proc.Process(r.Context(), fh.Filename)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Output = out
			if s.inst != nil {
				s.inst.FilesProcessed.Add(r.Context(), 1, metric.WithAttributes(
					observer.AttrSessionID.String(sess.ID)))
			}
		}
		results = append(results, result)
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleSummarize consolidates the session's artifacts into one summary.
// The body is optional JSON carrying a custom prompt.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	id := r.Header.Get("X-Session-ID")
	if id == "" {
		id = req.Session
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.RLock()
	defer sess.RUnlock()

	summary, err := s.newSummarizer(sess.Workspace).Summarize(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// handleClear drops the session's staged inputs and artifacts.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(sessionID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Workspace.Reset(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "session cleared"})
}

// handleCheckTextFiles reports whether the session has any artifacts to
// summarize.
func (s *Server) handleCheckTextFiles(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(sessionID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.RLock()
	defer sess.RUnlock()

	ok, err := sess.Workspace.HasArtifacts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"text_files_available": ok})
}
