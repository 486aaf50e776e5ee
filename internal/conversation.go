package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	GreetingID   = "greeting"
	GreetingText = "Hi! Ask me about this video."

	regenerateFailureText = "I'm sorry, I encountered an error regenerating the response. Please try again."

	placeholderTitle    = "YouTube Video"
	placeholderDuration = "10:00"
)

// Backend is the subset of the gateway a conversation needs
type Backend interface {
	FetchTranscript(ctx context.Context, videoID string) (*Transcript, error)
	Ask(ctx context.Context, question, videoID string) (*Answer, error)
	SetVideoID(videoID string)
}

// SessionStore is the subset of Storage a conversation needs
type SessionStore interface {
	Create(ctx context.Context, draft SessionDraft) (*ChatSession, error)
	Update(ctx context.Context, id string, patch SessionPatch) (*ChatSession, error)
	GetByID(ctx context.Context, id string) (*ChatSession, bool, error)
}

// Greeting is the assistant message shown for a conversation with no history
func Greeting() Message {
	return Message{ID: GreetingID, Text: GreetingText, IsUser: false}
}

// ChatService creates and reopens conversations
type ChatService struct {
	store   SessionStore
	backend Backend
	newID   func() string
}

// NewChatService wires a store and a backend together
func NewChatService(store SessionStore, backend Backend) *ChatService {
	return &ChatService{
		store:   store,
		backend: backend,
		newID:   uuid.NewString,
	}
}

// StartChat fetches the transcript and creates a session for videoID. A failed
// fetch does not block creation: the session gets a placeholder transcript and
// the fetch error is kept on the conversation for display.
func (c *ChatService) StartChat(ctx context.Context, videoID string) (*Conversation, error) {
	if videoID == "" {
		return nil, ErrMissingVideoContext
	}

	draft := SessionDraft{
		VideoID:        videoID,
		VideoThumbnail: ThumbnailURL(videoID),
		Messages:       []Message{},
	}

	transcript, fetchErr := c.backend.FetchTranscript(ctx, videoID)
	if fetchErr != nil {
		LogWarn("Transcript fetch for %s failed, using placeholder: %v", videoID, fetchErr)
		draft.VideoTitle = placeholderTitle
		draft.VideoDuration = placeholderDuration
		draft.Transcript = "Error: " + fetchErr.Error()
	} else {
		draft.VideoTitle = transcript.Title
		draft.VideoDuration = transcript.Duration
		if draft.VideoDuration == "" {
			draft.VideoDuration = placeholderDuration
		}
		draft.Transcript = transcript.Transcript
	}

	session, err := c.store.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	conv := c.newConversation(session)
	conv.fetchErr = fetchErr
	return conv, nil
}

// Open loads an existing session and points the backend at its video
func (c *ChatService) Open(ctx context.Context, sessionID string) (*Conversation, error) {
	session, found, err := c.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &StoreError{Op: "get", Key: sessionID, Err: ErrNotFound}
	}
	if session.VideoID != "" {
		c.backend.SetVideoID(session.VideoID)
	}
	return c.newConversation(session), nil
}

func (c *ChatService) newConversation(session *ChatSession) *Conversation {
	messages := session.Messages
	if len(messages) == 0 {
		messages = []Message{Greeting()}
	}
	conv := &Conversation{
		store:    c.store,
		backend:  c.backend,
		newID:    c.newID,
		session:  session.Clone(),
		messages: make([]Message, len(messages)),
	}
	copy(conv.messages, messages)
	return conv
}

// Conversation is the live view of one session. User messages are recorded
// before the backend is called and answers are inserted only if no newer turn
// (ask, regenerate, clear) has started in the meantime.
type Conversation struct {
	store   SessionStore
	backend Backend
	newID   func() string

	mu       sync.Mutex
	session  *ChatSession
	messages []Message
	turn     uint64
	fetchErr error
}

// Session returns a snapshot of the session including the current messages
func (c *Conversation) Session() *ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session.Clone()
	s.Messages = make([]Message, len(c.messages))
	copy(s.Messages, c.messages)
	return s
}

// Messages returns a copy of the visible messages, oldest first
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// TranscriptError reports the fetch failure that forced a placeholder transcript
func (c *Conversation) TranscriptError() error {
	return c.fetchErr
}

// Ask records the question, asks the backend and appends the reply. Backend
// failures are appended as an assistant-style error message and also returned.
func (c *Conversation) Ask(ctx context.Context, question string) (Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Message{}, ErrEmptyQuestion
	}

	c.mu.Lock()
	c.turn++
	turn := c.turn
	videoID := c.session.VideoID
	c.messages = append(c.messages, Message{ID: c.newID(), Text: question, IsUser: true})
	if err := c.persistLocked(ctx); err != nil {
		c.messages = c.messages[:len(c.messages)-1]
		c.mu.Unlock()
		return Message{}, err
	}
	c.mu.Unlock()

	answer, askErr := c.backend.Ask(ctx, question, videoID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if turn != c.turn {
		LogDebug("Dropping stale answer for %q", question)
		return Message{}, ErrStaleResponse
	}

	var reply Message
	if askErr != nil {
		reply = Message{
			ID:   c.newID(),
			Text: fmt.Sprintf("Error: %v. Please make sure the backend server is running.", askErr),
		}
	} else {
		reply = Message{ID: c.newID(), Text: answer.Answer, UserQuestion: question}
	}
	c.messages = append(c.messages, reply)
	if err := c.persistLocked(ctx); err != nil {
		return reply, err
	}
	return reply, askErr
}

// Regenerate replaces an assistant answer with a fresh one for the same question.
// The new answer goes right after the question it answers.
func (c *Conversation) Regenerate(ctx context.Context, messageID string) (Message, error) {
	c.mu.Lock()
	index := -1
	for i, m := range c.messages {
		if m.ID == messageID {
			index = i
			break
		}
	}
	if index == -1 {
		c.mu.Unlock()
		return Message{}, fmt.Errorf("%w: no message %q", ErrNotRegenerable, messageID)
	}
	original := c.messages[index]
	if original.IsUser || original.UserQuestion == "" {
		c.mu.Unlock()
		return Message{}, fmt.Errorf("%w: message %q does not answer a question", ErrNotRegenerable, messageID)
	}

	c.turn++
	turn := c.turn
	videoID := c.session.VideoID
	previous := c.messages
	c.messages = append(c.messages[:index:index], c.messages[index+1:]...)
	if err := c.persistLocked(ctx); err != nil {
		c.messages = previous
		c.mu.Unlock()
		return Message{}, err
	}
	c.mu.Unlock()

	answer, askErr := c.backend.Ask(ctx, original.UserQuestion, videoID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if turn != c.turn {
		return Message{}, ErrStaleResponse
	}

	if askErr != nil {
		reply := Message{ID: c.newID(), Text: regenerateFailureText}
		c.messages = append(c.messages, reply)
		if err := c.persistLocked(ctx); err != nil {
			return reply, err
		}
		return reply, askErr
	}

	reply := Message{ID: c.newID(), Text: answer.Answer, UserQuestion: original.UserQuestion}
	insertAt := -1
	for i := max(index-1, 0); i < len(c.messages); i++ {
		if c.messages[i].IsUser && c.messages[i].Text == original.UserQuestion {
			insertAt = i + 1
			break
		}
	}
	if insertAt == -1 {
		c.messages = append(c.messages, reply)
	} else {
		c.messages = append(c.messages[:insertAt], append([]Message{reply}, c.messages[insertAt:]...)...)
	}
	if err := c.persistLocked(ctx); err != nil {
		return reply, err
	}
	return reply, nil
}

// Clear resets the conversation to the greeting. Pending replies are dropped.
func (c *Conversation) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turn++
	c.messages = []Message{Greeting()}
	return c.persistLocked(ctx)
}

func (c *Conversation) persistLocked(ctx context.Context) error {
	snapshot := make([]Message, len(c.messages))
	copy(snapshot, c.messages)
	updated, err := c.store.Update(ctx, c.session.ID, SessionPatch{Messages: snapshot})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			LogWarn("Session %s no longer exists", c.session.ID)
		}
		return err
	}
	c.session = updated
	return nil
}
