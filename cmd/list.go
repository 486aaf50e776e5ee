package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

var listSort string

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored chat sessions",
	Long:  `List chat sessions from the local profile, newest first by default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.storage.List(cmd.Context(), listSort)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		displaySessions(cmd.OutOrStdout(), sessions, time.Now())
		return nil
	},
}

func displaySessions(out io.Writer, sessions []*internal.ChatSession, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		fmt.Fprintln(out, idStyle.Render("Start one with `tubechat start <youtube-url>`"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Video")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Duration")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, session := range sessions {
		title := session.VideoTitle
		if title == "" {
			title = "YouTube Video " + session.VideoID
		}

		duration := session.VideoDuration
		if duration == "" {
			duration = "—"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(session.ID),
			truncate(title, 50),
			countStyle.Render(strconv.Itoa(countQuestions(session))),
			duration,
			dateStyle.Render(relativeDate(session.GetCreatedAt(), now)),
		)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Resume a chat with `tubechat chat <id>`"))
}

// countQuestions counts user turns; the greeting is not part of the tally
func countQuestions(session *internal.ChatSession) int {
	n := 0
	for _, m := range session.Messages {
		if m.IsUser {
			n++
		}
	}
	return n
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listSort, "sort", internal.SortCreatedDesc, "Sort order (-created_date, created_date, or empty for insertion order)")
}
