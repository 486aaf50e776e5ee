package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// BackendRequest records one call made to a FakeBackend
type BackendRequest struct {
	Method string
	Path   string
	Body   map[string]string
}

// FakeBackend is an httptest server speaking the transcript/chat API
type FakeBackend struct {
	Server *httptest.Server

	mu sync.Mutex
	// Status and bodies per route; zero Status means 200
	TranscriptStatus int
	TranscriptBody   string
	ChatStatus       int
	ChatBody         string
	HealthStatus     int
	ForgetStatus     int
	Requests         []BackendRequest
}

// NewFakeBackend starts a backend that answers every question with "Topic X"
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{
		TranscriptBody: `{"video_id":"abc123DEF01","title":"Test Video","transcript":"hello world","duration":"10:30"}`,
		ChatBody:       `{"answer":"Topic X"}`,
	}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the base URL of the fake backend
func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// Set changes the fake's behaviour under its lock
func (fb *FakeBackend) Set(fn func(fb *FakeBackend)) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fn(fb)
}

// Calls returns a copy of the recorded requests
func (fb *FakeBackend) Calls() []BackendRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]BackendRequest, len(fb.Requests))
	copy(out, fb.Requests)
	return out
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	req := BackendRequest{Method: r.Method, Path: r.URL.Path}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req.Body)
	}
	fb.Requests = append(fb.Requests, req)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/transcript/"):
		writeFake(w, fb.TranscriptStatus, fb.TranscriptBody)
	case r.Method == http.MethodPost && r.URL.Path == "/api/chat":
		writeFake(w, fb.ChatStatus, fb.ChatBody)
	case r.Method == http.MethodGet && r.URL.Path == "/api/health":
		writeFake(w, fb.HealthStatus, `{"status":"healthy"}`)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/video/"):
		writeFake(w, fb.ForgetStatus, `{"message":"deleted"}`)
	default:
		writeFake(w, http.StatusNotFound, `{"detail":"Not Found"}`)
	}
}

func writeFake(w http.ResponseWriter, status int, body string) {
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
