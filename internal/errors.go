package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update targets a session that is not stored
	ErrNotFound = errors.New("chat session not found")
	// ErrBackendUnavailable covers any transport failure or non-2xx backend response
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrMissingVideoContext is returned when an ask has no resolvable video id
	ErrMissingVideoContext = errors.New("video ID is required for chat")
	ErrEmptyQuestion       = errors.New("question is empty")
	ErrNotRegenerable      = errors.New("message cannot be regenerated")
	// ErrStaleResponse marks a reply that arrived after a newer turn started
	ErrStaleResponse = errors.New("response superseded by a newer request")
	ErrInvalidTheme  = errors.New("invalid theme")

	errDuplicateID = errors.New("duplicate session id")
)

// StoreError represents errors reading or writing the local session store
type StoreError struct {
	Op  string // "create", "update", "get", "delete", "list"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// BackendError represents a failed call to the transcript/chat backend
type BackendError struct {
	Op     string // "transcript", "chat", "health", "forget"
	URL    string
	Status int // 0 when the request never got a response
	Detail string
	Err    error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("Backend API error: %s", e.Detail)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrBackendUnavailable) match every BackendError
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
