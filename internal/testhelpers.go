package internal

import (
	"fmt"
	"time"
)

// CreateTestSession creates a test session with a short question/answer exchange
func CreateTestSession(id string) *ChatSession {
	return &ChatSession{
		ID:             id,
		VideoID:        "abc123DEF01",
		VideoTitle:     "Test Video",
		VideoThumbnail: ThumbnailURL("abc123DEF01"),
		VideoDuration:  "10:30",
		Transcript:     "This is a test transcript about topic X.",
		Messages: []Message{
			Greeting(),
			{ID: "m1", Text: "What is discussed?", IsUser: true},
			{ID: "m2", Text: "Topic X", UserQuestion: "What is discussed?"},
		},
		CreatedDate: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// CreateTestSessionWithMessages creates a test session with custom messages
func CreateTestSessionWithMessages(id string, messages []Message) *ChatSession {
	s := CreateTestSession(id)
	s.Messages = messages
	return s
}

// CreateTestMessages builds n alternating user/assistant messages
func CreateTestMessages(n int) []Message {
	messages := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			messages = append(messages, Message{ID: fmt.Sprintf("m%d", i), Text: fmt.Sprintf("question %d", i), IsUser: true})
		} else {
			messages = append(messages, Message{
				ID:           fmt.Sprintf("m%d", i),
				Text:         fmt.Sprintf("answer %d", i),
				UserQuestion: fmt.Sprintf("question %d", i-1),
			})
		}
	}
	return messages
}

// CreateTestDraft creates a draft for video with no messages
func CreateTestDraft(videoID string) SessionDraft {
	return SessionDraft{
		VideoID:        videoID,
		VideoTitle:     "YouTube Video " + videoID,
		VideoThumbnail: ThumbnailURL(videoID),
		VideoDuration:  "Unknown",
		Transcript:     "transcript for " + videoID,
		Messages:       []Message{},
	}
}
