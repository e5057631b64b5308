package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nevindra/scribe"
)

var uploadBaseURL = "https://generativelanguage.googleapis.com/upload/v1beta"

// FileInfo describes a file stored with the Gemini Files API.
type FileInfo struct {
	// Name is the resource identifier (e.g. "files/abc123").
	Name string `json:"name,omitempty"`

	// DisplayName is a human-readable label, taken from the local filename.
	DisplayName string `json:"displayName,omitempty"`

	// URI references the file in generateContent requests via fileData parts.
	URI string `json:"uri,omitempty"`

	// MimeType is the declared media type.
	MimeType string `json:"mimeType,omitempty"`

	// State is the processing state: "PROCESSING", "ACTIVE" or "FAILED".
	State string `json:"state,omitempty"`

	// SizeBytes is the stored size. Output only.
	SizeBytes string `json:"sizeBytes,omitempty"`

	// ExpirationTime is when the file will be deleted (RFC 3339). Output only.
	ExpirationTime string `json:"expirationTime,omitempty"`
}

type fileEnvelope struct {
	File FileInfo `json:"file"`
}

// filePollInterval is the delay between state polls while an uploaded
// file is still PROCESSING.
var filePollInterval = 500 * time.Millisecond

// UploadFile uploads a local file via the Files API and returns its URI
// once the file reaches the ACTIVE state. The URI can be attached to a
// message as a fileData reference.
func (g *Gemini) UploadFile(ctx context.Context, path, mimeType string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", g.wrapErr("read upload file: " + err.Error())
	}

	url := fmt.Sprintf("%s/files?key=%s", uploadBaseURL, g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", g.wrapErr("create upload request: " + err.Error())
	}
	httpReq.Header.Set("Content-Type", mimeType)
	httpReq.Header.Set("X-Goog-Upload-Protocol", "raw")
	httpReq.Header.Set("X-Goog-File-Name", filepath.Base(path))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", g.wrapErr("upload request failed: " + err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", g.wrapErr("read upload response: " + err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &scribe.ErrHTTP{Status: resp.StatusCode, Body: string(respBody)}
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", g.wrapErr("parse upload response: " + err.Error())
	}
	if envelope.File.URI == "" {
		return "", g.wrapErr("missing file.uri in upload response")
	}

	info, err := g.waitActive(ctx, envelope.File)
	if err != nil {
		return "", err
	}
	return info.URI, nil
}

// waitActive polls the file resource until it leaves the PROCESSING state.
func (g *Gemini) waitActive(ctx context.Context, info FileInfo) (FileInfo, error) {
	for info.State == "PROCESSING" {
		select {
		case <-ctx.Done():
			return FileInfo{}, ctx.Err()
		case <-time.After(filePollInterval):
		}

		var err error
		info, err = g.GetFile(ctx, info.Name)
		if err != nil {
			return FileInfo{}, err
		}
	}
	if info.State == "FAILED" {
		return FileInfo{}, g.wrapErr("file processing failed: " + info.Name)
	}
	return info, nil
}

// GetFile retrieves a file resource by name (e.g. "files/abc123").
func (g *Gemini) GetFile(ctx context.Context, name string) (FileInfo, error) {
	url := fmt.Sprintf("%s/%s?key=%s", baseURL, name, g.apiKey)
	return fileRequest[FileInfo](ctx, g.httpClient, http.MethodGet, url)
}

// ListFiles lists the files currently stored with the Files API.
func (g *Gemini) ListFiles(ctx context.Context) ([]FileInfo, error) {
	url := fmt.Sprintf("%s/files?key=%s", baseURL, g.apiKey)
	resp, err := fileRequest[fileListResponse](ctx, g.httpClient, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// DeleteFile deletes a file resource by name.
func (g *Gemini) DeleteFile(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/%s?key=%s", baseURL, name, g.apiKey)
	_, err := fileRequest[json.RawMessage](ctx, g.httpClient, http.MethodDelete, url)
	return err
}

type fileListResponse struct {
	Files         []FileInfo `json:"files"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// fileRequest is a generic helper for Files API metadata requests.
func fileRequest[T any](ctx context.Context, client *http.Client, method, url string) (T, error) {
	var zero T

	httpReq, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return zero, &scribe.ErrLLM{Provider: "gemini", Message: "create file request: " + err.Error()}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return zero, &scribe.ErrLLM{Provider: "gemini", Message: "file request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &scribe.ErrLLM{Provider: "gemini", Message: "read file response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &scribe.ErrHTTP{Status: resp.StatusCode, Body: string(respBody)}
	}

	// DELETE returns empty body.
	if len(respBody) == 0 {
		return zero, nil
	}

	var result T
	if err := json.Unmarshal(respBody, &result); err != nil {
		return zero, &scribe.ErrLLM{Provider: "gemini", Message: "parse file response: " + err.Error()}
	}
	return result, nil
}
