package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAPIBaseURL is the local development backend address
const DefaultAPIBaseURL = "http://localhost:8000"

// Transcript is the parsed payload of a transcript request
type Transcript struct {
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
	Duration   string `json:"duration"`
}

// Answer is the parsed payload of a chat request
type Answer struct {
	Answer string `json:"answer"`
}

type chatRequest struct {
	VideoID  string `json:"video_id"`
	Question string `json:"question"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Gateway brokers transcript and question-answering requests to the backend
type Gateway struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter

	mu             sync.RWMutex
	currentVideoID string
}

// GatewayOption customizes a Gateway
type GatewayOption func(*Gateway)

// WithHTTPClient replaces the HTTP client. The client itself is never modified.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) {
		if c != nil {
			g.http = c
		}
	}
}

// WithRequestTimeout bounds each backend call; zero keeps the client's own timeout
func WithRequestTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithRateLimit throttles outbound calls; rps <= 0 disables throttling
func WithRateLimit(rps float64) GatewayOption {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewGateway creates a gateway for the backend at baseURL
func NewGateway(baseURL string, opts ...GatewayOption) *Gateway {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultAPIBaseURL
	}
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.timeout > 0 {
		c := *g.http
		c.Timeout = g.timeout
		g.http = &c
	}
	return g
}

// BaseURL returns the backend base URL
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// SetVideoID sets the default video used when Ask gets no explicit id
func (g *Gateway) SetVideoID(videoID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentVideoID = videoID
}

// VideoID returns the current default video id, or "" if unset
func (g *Gateway) VideoID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentVideoID
}

// FetchTranscript retrieves the transcript for videoID and makes it the current video
func (g *Gateway) FetchTranscript(ctx context.Context, videoID string) (*Transcript, error) {
	endpoint := g.baseURL + "/api/transcript/" + url.PathEscape(videoID)

	var payload Transcript
	if err := g.call(ctx, "transcript", http.MethodPost, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	if payload.Title == "" {
		payload.Title = "YouTube Video " + videoID
	}
	if payload.Duration == "" {
		payload.Duration = "Unknown"
	}

	g.SetVideoID(videoID)
	LogDebug("Fetched transcript for %s (%d chars)", videoID, len(payload.Transcript))
	return &payload, nil
}

// Ask sends a question about a video. An empty videoID falls back to the current video.
func (g *Gateway) Ask(ctx context.Context, question, videoID string) (*Answer, error) {
	if videoID == "" {
		videoID = g.VideoID()
	}
	if videoID == "" {
		return nil, ErrMissingVideoContext
	}

	var payload Answer
	body := chatRequest{VideoID: videoID, Question: question}
	if err := g.call(ctx, "chat", http.MethodPost, g.baseURL+"/api/chat", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Health checks that the backend is reachable
func (g *Gateway) Health(ctx context.Context) error {
	return g.call(ctx, "health", http.MethodGet, g.baseURL+"/api/health", nil, nil)
}

// ForgetVideo asks the backend to drop its cached index for videoID
func (g *Gateway) ForgetVideo(ctx context.Context, videoID string) error {
	endpoint := g.baseURL + "/api/video/" + url.PathEscape(videoID)
	return g.call(ctx, "forget", http.MethodDelete, endpoint, nil, nil)
}

func (g *Gateway) call(ctx context.Context, op, method, endpoint string, in, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return g.unavailable(op, endpoint, 0, "", err)
	}

	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return g.unavailable(op, endpoint, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorBody
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &body); err != nil || body.Detail == "" {
			body.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return g.unavailable(op, endpoint, resp.StatusCode, body.Detail, nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return g.unavailable(op, endpoint, resp.StatusCode, "invalid response body", err)
	}
	return nil
}

func (g *Gateway) unavailable(op, endpoint string, status int, detail string, err error) *BackendError {
	if detail == "" {
		detail = fmt.Sprintf("Failed to connect to backend API. Please make sure the backend server is running on %s", g.baseURL)
		if err != nil {
			detail = fmt.Sprintf("%v. Please make sure the backend server is running on %s", err, g.baseURL)
		}
	}
	LogDebug("Backend %s call to %s failed: %s", op, endpoint, detail)
	return &BackendError{Op: op, URL: endpoint, Status: status, Detail: detail, Err: err}
}

var userQuestionPattern = regexp.MustCompile(`(?s)USER QUESTION:\s*(.+?)(?:\n|$)`)

// ExtractQuestion pulls the question out of a templated prompt containing a
// "USER QUESTION:" marker. Prompts without the marker are returned trimmed.
func ExtractQuestion(prompt string) string {
	if m := userQuestionPattern.FindStringSubmatch(prompt); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(prompt)
}
