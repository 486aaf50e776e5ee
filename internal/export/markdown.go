package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/tubechat/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.ChatSession, w io.Writer) error {
	title := session.VideoTitle
	if title == "" {
		title = "YouTube Video " + session.VideoID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	_, _ = fmt.Fprintf(w, "**Video:** %s  \n", internal.WatchURL(session.VideoID))
	if session.VideoDuration != "" {
		_, _ = fmt.Fprintf(w, "**Duration:** %s  \n", session.VideoDuration)
	}
	if session.CreatedDate != "" {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", session.CreatedDate)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Conversation\n\n")

	for i, msg := range session.Messages {
		speaker := "Assistant"
		if msg.IsUser {
			speaker = "You"
		}

		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", speaker, escapeMarkdown(msg.Text))

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes bold/underline markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
