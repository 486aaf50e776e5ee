package internal

import "time"

// ChatSession is one persisted conversation tied to a single video
type ChatSession struct {
	ID             string    `json:"id" yaml:"id"`
	VideoID        string    `json:"video_id" yaml:"video_id"`
	VideoTitle     string    `json:"video_title" yaml:"video_title"`
	VideoThumbnail string    `json:"video_thumbnail" yaml:"video_thumbnail"`
	VideoDuration  string    `json:"video_duration" yaml:"video_duration"`
	Transcript     string    `json:"transcript" yaml:"transcript"`
	Messages       []Message `json:"messages" yaml:"messages"`
	CreatedDate    string    `json:"created_date" yaml:"created_date"`
}

// Message is a single turn in a conversation
type Message struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	IsUser bool   `json:"isUser" yaml:"is_user"`
	// UserQuestion points an assistant answer back at the question it answered
	UserQuestion string `json:"userQuestion,omitempty" yaml:"user_question,omitempty"`
}

// SessionDraft holds the caller-supplied fields of a new session
type SessionDraft struct {
	VideoID        string
	VideoTitle     string
	VideoThumbnail string
	VideoDuration  string
	Transcript     string
	Messages       []Message
}

// SessionPatch is a shallow update. Nil fields are left untouched and a
// non-nil Messages replaces the whole slice.
type SessionPatch struct {
	VideoTitle     *string
	VideoThumbnail *string
	VideoDuration  *string
	Transcript     *string
	Messages       []Message
}

// GetCreatedAt parses CreatedDate, returning the zero time when it is missing or invalid
func (s *ChatSession) GetCreatedAt() time.Time {
	if s.CreatedDate == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.CreatedDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// LastAssistantMessage returns the most recent assistant answer that can be regenerated
func (s *ChatSession) LastAssistantMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		msg := s.Messages[i]
		if !msg.IsUser && msg.UserQuestion != "" {
			return msg, true
		}
	}
	return Message{}, false
}

// Clone returns a deep copy so callers cannot alias the stored message slice
func (s *ChatSession) Clone() *ChatSession {
	if s == nil {
		return nil
	}
	c := *s
	if s.Messages != nil {
		c.Messages = make([]Message, len(s.Messages))
		copy(c.Messages, s.Messages)
	}
	return &c
}

func (p SessionPatch) apply(s *ChatSession) {
	if p.VideoTitle != nil {
		s.VideoTitle = *p.VideoTitle
	}
	if p.VideoThumbnail != nil {
		s.VideoThumbnail = *p.VideoThumbnail
	}
	if p.VideoDuration != nil {
		s.VideoDuration = *p.VideoDuration
	}
	if p.Transcript != nil {
		s.Transcript = *p.Transcript
	}
	if p.Messages != nil {
		s.Messages = make([]Message, len(p.Messages))
		copy(s.Messages, p.Messages)
	}
}
