package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/tubechat/testutil"
)

// scriptedBackend answers from a queue and can hold an answer until released
type scriptedBackend struct {
	mu      sync.Mutex
	answers []string
	err     error
	asked   []string
	videoID string

	hold    chan struct{}
	started chan struct{}
}

func (b *scriptedBackend) FetchTranscript(ctx context.Context, videoID string) (*Transcript, error) {
	return &Transcript{Title: "Test Video", Transcript: "hello world", Duration: "10:30"}, nil
}

func (b *scriptedBackend) Ask(ctx context.Context, question, videoID string) (*Answer, error) {
	b.mu.Lock()
	b.asked = append(b.asked, question)
	hold, started := b.hold, b.started
	b.mu.Unlock()

	if hold != nil {
		close(started)
		<-hold
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	answer := "Topic X"
	if len(b.answers) > 0 {
		answer, b.answers = b.answers[0], b.answers[1:]
	}
	return &Answer{Answer: answer}, nil
}

func (b *scriptedBackend) SetVideoID(videoID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.videoID = videoID
}

// failingStore fails the next Update when failNext is set
type failingStore struct {
	*Storage
	failNext bool
}

func (s *failingStore) Update(ctx context.Context, id string, patch SessionPatch) (*ChatSession, error) {
	if s.failNext {
		s.failNext = false
		return nil, &StoreError{Op: "update", Key: id, Err: errors.New("disk full")}
	}
	return s.Storage.Update(ctx, id, patch)
}

func newTestService(t *testing.T, backend Backend) (*ChatService, *Storage) {
	t.Helper()
	storage := NewStorage(testutil.CreateInMemoryDB(t))
	svc := NewChatService(storage, backend)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("msg%d", n)
	}
	return svc, storage
}

func TestChatService_StartChat(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	gw := NewGateway(backend.URL())
	svc, storage := newTestService(t, gw)

	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)
	require.NoError(t, conv.TranscriptError())

	session := conv.Session()
	assert.Equal(t, "Test Video", session.VideoTitle)
	assert.Equal(t, "hello world", session.Transcript)
	assert.Equal(t, "10:30", session.VideoDuration)
	assert.Equal(t, ThumbnailURL("abc123DEF01"), session.VideoThumbnail)
	assert.Equal(t, []Message{Greeting()}, conv.Messages())
	assert.Equal(t, "abc123DEF01", gw.VideoID())

	stored, found, err := storage.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, stored.Messages, "the greeting is not persisted until the first turn")
}

func TestChatService_StartChat_TranscriptFailure(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	backend.Set(func(fb *testutil.FakeBackend) {
		fb.TranscriptStatus = http.StatusInternalServerError
		fb.TranscriptBody = `{"detail":"server error"}`
	})
	gw := NewGateway(backend.URL())
	svc, storage := newTestService(t, gw)

	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err, "a failed transcript fetch still creates the session")
	assert.ErrorIs(t, conv.TranscriptError(), ErrBackendUnavailable)
	assert.Empty(t, gw.VideoID(), "only a successful fetch sets the current video")

	sessions, err := storage.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "YouTube Video", sessions[0].VideoTitle)
	assert.Equal(t, "10:00", sessions[0].VideoDuration)
	assert.Contains(t, sessions[0].Transcript, "server error")
}

func TestChatService_StartChat_EmptyVideo(t *testing.T) {
	svc, _ := newTestService(t, &scriptedBackend{})

	_, err := svc.StartChat(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingVideoContext)
}

func TestChatService_Open(t *testing.T) {
	ctx := context.Background()
	backend := &scriptedBackend{}
	svc, storage := newTestService(t, backend)

	session, err := storage.Create(ctx, CreateTestDraft("abc123DEF01"))
	require.NoError(t, err)

	conv, err := svc.Open(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123DEF01", backend.videoID)
	assert.Equal(t, []Message{Greeting()}, conv.Messages())

	_, err = svc.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversation_Ask(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	svc, storage := newTestService(t, NewGateway(backend.URL()))

	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)

	reply, err := conv.Ask(ctx, "  What is discussed?  ")
	require.NoError(t, err)
	assert.Equal(t, "Topic X", reply.Text)
	assert.Equal(t, "What is discussed?", reply.UserQuestion)
	assert.False(t, reply.IsUser)

	stored, _, err := storage.GetByID(ctx, conv.Session().ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 3)
	assert.Equal(t, Greeting(), stored.Messages[0])
	assert.Equal(t, Message{ID: stored.Messages[1].ID, Text: "What is discussed?", IsUser: true}, stored.Messages[1])
	assert.Equal(t, reply, stored.Messages[2])

	calls := backend.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "abc123DEF01", last.Body["video_id"])
}

func TestConversation_Ask_BackendError(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	svc, storage := newTestService(t, NewGateway(backend.URL()))

	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)
	backend.Set(func(fb *testutil.FakeBackend) {
		fb.ChatStatus = http.StatusInternalServerError
		fb.ChatBody = `{"detail":"server error"}`
	})

	reply, err := conv.Ask(ctx, "What is discussed?")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Contains(t, reply.Text, "server error")
	assert.Contains(t, reply.Text, "Please make sure the backend server is running.")
	assert.Empty(t, reply.UserQuestion, "error replies cannot be regenerated")

	stored, _, err := storage.GetByID(ctx, conv.Session().ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 3)
	assert.True(t, stored.Messages[1].IsUser, "the question is kept even when the backend fails")
}

func TestConversation_Ask_EmptyQuestion(t *testing.T) {
	ctx := context.Background()
	backend := &scriptedBackend{}
	svc, _ := newTestService(t, backend)
	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)

	_, err = conv.Ask(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, backend.asked)
	assert.Len(t, conv.Messages(), 1)
}

func TestConversation_Ask_DroppedAfterClear(t *testing.T) {
	ctx := context.Background()
	backend := &scriptedBackend{hold: make(chan struct{}), started: make(chan struct{})}
	svc, storage := newTestService(t, backend)
	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := conv.Ask(ctx, "slow question")
		done <- err
	}()

	<-backend.started
	require.NoError(t, conv.Clear(ctx))
	close(backend.hold)

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.Equal(t, []Message{Greeting()}, conv.Messages())

	stored, _, err := storage.GetByID(ctx, conv.Session().ID)
	require.NoError(t, err)
	assert.Equal(t, []Message{Greeting()}, stored.Messages)
}

func TestConversation_Regenerate(t *testing.T) {
	ctx := context.Background()
	backend := &scriptedBackend{answers: []string{"first A", "first B", "second A"}}
	svc, storage := newTestService(t, backend)
	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)

	answerA, err := conv.Ask(ctx, "question A")
	require.NoError(t, err)
	_, err = conv.Ask(ctx, "question B")
	require.NoError(t, err)

	regenerated, err := conv.Regenerate(ctx, answerA.ID)
	require.NoError(t, err)
	assert.Equal(t, "second A", regenerated.Text)
	assert.Equal(t, "question A", regenerated.UserQuestion)
	assert.Equal(t, []string{"question A", "question B", "question A"}, backend.asked)

	texts := func(msgs []Message) []string {
		out := make([]string, len(msgs))
		for i, m := range msgs {
			out[i] = m.Text
		}
		return out
	}
	want := []string{GreetingText, "question A", "second A", "question B", "first B"}
	assert.Equal(t, want, texts(conv.Messages()))

	stored, _, err := storage.GetByID(ctx, conv.Session().ID)
	require.NoError(t, err)
	assert.Equal(t, want, texts(stored.Messages))
}

func TestConversation_Regenerate_NotRegenerable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &scriptedBackend{})
	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)
	_, err = conv.Ask(ctx, "question A")
	require.NoError(t, err)

	msgs := conv.Messages()
	_, err = conv.Regenerate(ctx, GreetingID)
	assert.ErrorIs(t, err, ErrNotRegenerable)
	_, err = conv.Regenerate(ctx, msgs[1].ID)
	assert.ErrorIs(t, err, ErrNotRegenerable, "user messages cannot be regenerated")
	_, err = conv.Regenerate(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotRegenerable)
	assert.Equal(t, msgs, conv.Messages())
}

func TestConversation_Regenerate_Failure(t *testing.T) {
	ctx := context.Background()
	backend := &scriptedBackend{}
	svc, _ := newTestService(t, backend)
	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)
	answer, err := conv.Ask(ctx, "question A")
	require.NoError(t, err)

	backend.err = errors.New("boom")
	reply, err := conv.Regenerate(ctx, answer.ID)
	require.Error(t, err)
	assert.Equal(t, "I'm sorry, I encountered an error regenerating the response. Please try again.", reply.Text)

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "question A", msgs[1].Text)
	assert.Equal(t, reply, msgs[2])
}

func TestConversation_Clear(t *testing.T) {
	ctx := context.Background()
	svc, storage := newTestService(t, &scriptedBackend{})
	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)
	_, err = conv.Ask(ctx, "question A")
	require.NoError(t, err)

	require.NoError(t, conv.Clear(ctx))
	assert.Equal(t, []Message{Greeting()}, conv.Messages())

	stored, _, err := storage.GetByID(ctx, conv.Session().ID)
	require.NoError(t, err)
	assert.Equal(t, []Message{Greeting()}, stored.Messages)
	assert.Equal(t, "hello world", stored.Transcript, "clearing keeps the transcript")
}

func TestConversation_DeletedSession(t *testing.T) {
	ctx := context.Background()
	svc, storage := newTestService(t, &scriptedBackend{})
	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)
	require.NoError(t, storage.Delete(ctx, conv.Session().ID))

	_, err = conv.Ask(ctx, "question A")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversation_Ask_PersistFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	backend := &scriptedBackend{}
	store := &failingStore{Storage: NewStorage(testutil.CreateInMemoryDB(t))}
	svc := NewChatService(store, backend)

	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)

	store.failNext = true
	_, err = conv.Ask(ctx, "lost question")
	require.Error(t, err)
	assert.Equal(t, []Message{Greeting()}, conv.Messages())
	assert.Empty(t, backend.asked, "the backend is not asked when the question was not saved")

	_, err = conv.Ask(ctx, "kept question")
	require.NoError(t, err)

	stored, _, err := store.GetByID(ctx, conv.Session().ID)
	require.NoError(t, err)
	for _, m := range stored.Messages {
		assert.NotEqual(t, "lost question", m.Text)
	}
	assert.Len(t, stored.Messages, 3)
}

func TestConversation_Regenerate_PersistFailureKeepsAnswer(t *testing.T) {
	ctx := context.Background()
	backend := &scriptedBackend{}
	store := &failingStore{Storage: NewStorage(testutil.CreateInMemoryDB(t))}
	svc := NewChatService(store, backend)

	conv, err := svc.StartChat(ctx, "abc123DEF01")
	require.NoError(t, err)
	answer, err := conv.Ask(ctx, "question A")
	require.NoError(t, err)
	before := conv.Messages()

	store.failNext = true
	_, err = conv.Regenerate(ctx, answer.ID)
	require.Error(t, err)
	assert.Equal(t, before, conv.Messages())
}
