package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/tubechat/internal"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const wrapWidth = 80

// styles derived from the active theme palette
type styles struct {
	header    lipgloss.Style
	meta      lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	id        lipgloss.Style
	errorText lipgloss.Style
	muted     lipgloss.Style
}

func newStyles(theme internal.Theme) styles {
	p := theme.Palette()
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			Padding(0, 1),
		meta: lipgloss.NewStyle().
			Foreground(p.Secondary),
		user: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		assistant: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		id: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Italic(true),
		errorText: lipgloss.NewStyle().
			Foreground(p.Error),
		muted: lipgloss.NewStyle().
			Foreground(p.Border).
			Italic(true),
	}
}

// renderer prints sessions and messages for one theme
type renderer struct {
	w        io.Writer
	theme    internal.Theme
	styles   styles
	markdown *glamour.TermRenderer
}

// newRenderer renders answers as markdown only when w is a terminal; piped
// output stays plain text.
func newRenderer(w io.Writer, theme internal.Theme) *renderer {
	r := &renderer{w: w, theme: theme, styles: newStyles(theme)}
	if !isTerminal(w) {
		return r
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle()),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		internal.LogDebug("Markdown rendering disabled: %v", err)
	} else {
		r.markdown = md
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

func (r *renderer) sessionHeader(session *internal.ChatSession) {
	title := session.VideoTitle
	if title == "" {
		title = "YouTube Video " + session.VideoID
	}
	fmt.Fprintln(r.w, r.styles.header.Render("▶ "+title))

	var metaParts []string
	metaParts = append(metaParts, internal.WatchURL(session.VideoID))
	if session.VideoDuration != "" {
		metaParts = append(metaParts, "Duration: "+session.VideoDuration)
	}
	if created := session.GetCreatedAt(); !created.IsZero() {
		metaParts = append(metaParts, "Created: "+created.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(r.w, r.styles.meta.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(r.w, r.styles.meta.Render("Thumbnail: "+thumbnailURL(session)))
	fmt.Fprintln(r.w, r.styles.id.Render("Session: "+session.ID))
	fmt.Fprintln(r.w)
}

// thumbnailURL prefers the stored thumbnail; hqdefault exists for every video
func thumbnailURL(session *internal.ChatSession) string {
	if session.VideoThumbnail != "" {
		return session.VideoThumbnail
	}
	return internal.FallbackThumbnailURL(session.VideoID)
}

func (r *renderer) message(msg internal.Message) {
	if msg.IsUser {
		fmt.Fprintln(r.w, r.styles.user.Render("You"))
		fmt.Fprintln(r.w, indent.String(wordwrap.String(strings.TrimSpace(msg.Text), wrapWidth-2), 2))
		fmt.Fprintln(r.w)
		return
	}

	label := r.styles.assistant.Render("Assistant")
	if msg.UserQuestion != "" {
		label += " " + r.styles.id.Render("["+msg.ID+"]")
	}
	fmt.Fprintln(r.w, label)

	if strings.HasPrefix(msg.Text, "Error:") {
		fmt.Fprintln(r.w, indent.String(r.styles.errorText.Render(wordwrap.String(msg.Text, wrapWidth-2)), 2))
		fmt.Fprintln(r.w)
		return
	}
	fmt.Fprintln(r.w, r.assistantText(msg.Text))
}

// assistantText renders answers as markdown, falling back to plain wrapped text
func (r *renderer) assistantText(text string) string {
	if r.markdown != nil {
		if out, err := r.markdown.Render(text); err == nil {
			return strings.TrimRight(out, "\n") + "\n"
		}
	}
	return indent.String(wordwrap.String(strings.TrimSpace(text), wrapWidth-2), 2) + "\n"
}

func (r *renderer) messages(msgs []internal.Message, limit int) {
	shown := msgs
	if limit > 0 && limit < len(msgs) {
		shown = msgs[len(msgs)-limit:]
		fmt.Fprintln(r.w, r.styles.muted.Render(fmt.Sprintf("... (%d earlier message(s))", len(msgs)-limit)))
		fmt.Fprintln(r.w)
	}
	for _, msg := range shown {
		r.message(msg)
	}
}

func (r *renderer) transcript(session *internal.ChatSession) {
	fmt.Fprintln(r.w, r.styles.header.Render("Transcript"))
	text := strings.TrimSpace(session.Transcript)
	if text == "" {
		fmt.Fprintln(r.w, r.styles.muted.Render("(no transcript)"))
		return
	}
	fmt.Fprintln(r.w, indent.String(wordwrap.String(text, wrapWidth-2), 2))
	fmt.Fprintln(r.w)
}

// relativeDate formats created dates the way the session list shows them
func relativeDate(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
