// Package scribe implements a document extraction and summarization
// pipeline. Uploaded files are staged in a per-session workspace, PDFs are
// rasterized to page images, each asset is sent to a multimodal extraction
// backend, and the extracted text artifacts can be consolidated into a
// single summary by a text-generation backend.
//
// The root package holds the pipeline itself: workspaces, sessions, the
// extractor and the summarizer. Backends live in provider/ subpackages,
// PDF rasterization in convert, and the HTTP surface in internal/server.
package scribe
