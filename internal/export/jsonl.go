package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/tubechat/internal"
)

// JSONLExporter writes one message per line, oldest first
type JSONLExporter struct{}

type jsonlLine struct {
	SessionID    string `json:"session_id"`
	VideoID      string `json:"video_id"`
	ID           string `json:"id"`
	Text         string `json:"text"`
	IsUser       bool   `json:"isUser"`
	UserQuestion string `json:"userQuestion,omitempty"`
}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range session.Messages {
		line := jsonlLine{
			SessionID:    session.ID,
			VideoID:      session.VideoID,
			ID:           msg.ID,
			Text:         msg.Text,
			IsUser:       msg.IsUser,
			UserQuestion: msg.UserQuestion,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
