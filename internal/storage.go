package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "chat_session:"

// Sort specs accepted by List
const (
	SortCreatedAsc  = "created_date"
	SortCreatedDesc = "-created_date"
)

// Storage persists chat sessions in the chat_kv table, one row per session
type Storage struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// StorageOption customizes a Storage
type StorageOption func(*Storage)

// WithClock overrides the clock used for created_date
func WithClock(now func() time.Time) StorageOption {
	return func(s *Storage) {
		s.now = now
	}
}

// WithIDGenerator overrides session id generation
func WithIDGenerator(gen func() string) StorageOption {
	return func(s *Storage) {
		s.newID = gen
	}
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB, opts ...StorageOption) *Storage {
	s := &Storage{
		db:    db,
		now:   time.Now,
		newID: func() string { return "chat_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for components sharing the profile database
func (s *Storage) DB() *sql.DB {
	return s.db
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// List returns every stored session. With a created_date sort spec the result is a
// newly ordered copy; sessions with a missing or invalid date sort as the oldest.
func (s *Storage) List(ctx context.Context, sortSpec string) ([]*ChatSession, error) {
	pairs, err := QueryKV(ctx, s.db, sessionKeyPrefix+"%")
	if err != nil {
		return nil, &StoreError{Op: "list", Key: sessionKeyPrefix + "*", Err: err}
	}

	sessions := make([]*ChatSession, 0, len(pairs))
	for _, pair := range pairs {
		var session ChatSession
		if err := json.Unmarshal([]byte(pair.Value), &session); err != nil {
			LogWarn("Skipping unreadable session %s: %v", pair.Key, err)
			continue
		}
		sessions = append(sessions, &session)
	}

	switch strings.TrimSpace(sortSpec) {
	case SortCreatedDesc:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].GetCreatedAt().After(sessions[j].GetCreatedAt())
		})
	case SortCreatedAsc:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].GetCreatedAt().Before(sessions[j].GetCreatedAt())
		})
	case "":
	default:
		LogDebug("Unknown sort spec %q, keeping insertion order", sortSpec)
	}

	return sessions, nil
}

// Create assigns a fresh id and created_date to the draft and persists it
func (s *Storage) Create(ctx context.Context, draft SessionDraft) (*ChatSession, error) {
	session := &ChatSession{
		ID:             s.newID(),
		VideoID:        draft.VideoID,
		VideoTitle:     draft.VideoTitle,
		VideoThumbnail: draft.VideoThumbnail,
		VideoDuration:  draft.VideoDuration,
		Transcript:     draft.Transcript,
		Messages:       make([]Message, len(draft.Messages)),
		CreatedDate:    s.now().UTC().Format(time.RFC3339Nano),
	}
	copy(session.Messages, draft.Messages)

	if _, found, err := GetKV(ctx, s.db, sessionKey(session.ID)); err != nil {
		return nil, &StoreError{Op: "create", Key: session.ID, Err: err}
	} else if found {
		return nil, &StoreError{Op: "create", Key: session.ID, Err: errDuplicateID}
	}

	if err := s.put(ctx, session); err != nil {
		return nil, &StoreError{Op: "create", Key: session.ID, Err: err}
	}

	LogDebug("Created session %s for video %s", session.ID, session.VideoID)
	return session.Clone(), nil
}

// Update shallow-merges patch into the stored session
func (s *Storage) Update(ctx context.Context, id string, patch SessionPatch) (*ChatSession, error) {
	session, found, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "update", Key: id, Err: err}
	}
	if !found {
		return nil, &StoreError{Op: "update", Key: id, Err: ErrNotFound}
	}

	patch.apply(session)
	if err := s.put(ctx, session); err != nil {
		return nil, &StoreError{Op: "update", Key: id, Err: err}
	}

	return session, nil
}

// GetByID returns the matching session; found is false for an unknown id
func (s *Storage) GetByID(ctx context.Context, id string) (*ChatSession, bool, error) {
	value, found, err := GetKV(ctx, s.db, sessionKey(id))
	if err != nil {
		return nil, false, &StoreError{Op: "get", Key: id, Err: err}
	}
	if !found {
		return nil, false, nil
	}

	var session ChatSession
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, false, &StoreError{Op: "get", Key: id, Err: err}
	}
	return &session, true, nil
}

// Delete removes the session if present
func (s *Storage) Delete(ctx context.Context, id string) error {
	if err := DeleteKV(ctx, s.db, sessionKey(id)); err != nil {
		return &StoreError{Op: "delete", Key: id, Err: err}
	}
	return nil
}

func (s *Storage) put(ctx context.Context, session *ChatSession) error {
	if session.Messages == nil {
		session.Messages = []Message{}
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return PutKV(ctx, s.db, sessionKey(session.ID), string(data))
}
