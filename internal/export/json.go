package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/tubechat/internal"
)

// JSONExporter writes the session record exactly as it is persisted, pretty-printed
type JSONExporter struct{}

// Export exports a session to JSON format
func (e *JSONExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(session)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
