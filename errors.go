package scribe

import (
	"errors"
	"fmt"
)

// ErrNoFiles is returned when a request carries no uploaded files.
var ErrNoFiles = errors.New("no files provided")

// ErrLLM reports a failure inside a generation backend call.
type ErrLLM struct {
	Provider string
	Message  string
}

func (e *ErrLLM) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// ErrHTTP reports a non-2xx response from a backend.
type ErrHTTP struct {
	Status int
	Body   string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// ErrFileNotFound reports a staged input file that does not exist.
type ErrFileNotFound struct {
	Path string
}

func (e *ErrFileNotFound) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

// ErrUnknownMIMEType reports a file whose MIME type could not be
// determined from its extension.
type ErrUnknownMIMEType struct {
	Path string
}

func (e *ErrUnknownMIMEType) Error() string {
	return fmt.Sprintf("unable to determine MIME type for %s", e.Path)
}

// IsNotFound reports whether err is (or wraps) an ErrFileNotFound.
func IsNotFound(err error) bool {
	var nf *ErrFileNotFound
	return errors.As(err, &nf)
}
