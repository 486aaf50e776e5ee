package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

const chatHelp = "Commands: /regen (regenerate last answer), /clear, /transcript, /quit"

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat <session-id>",
	Short: "Resume an interactive chat",
	Long: `Open a stored chat session and keep asking questions about its video.

` + chatHelp,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		conv, err := a.chats.Open(ctx, args[0])
		if err != nil {
			if errors.Is(err, internal.ErrNotFound) {
				return fmt.Errorf("session not found: %s (use 'tubechat list' to see available sessions)", args[0])
			}
			return err
		}

		r := newRenderer(cmd.OutOrStdout(), a.theme(ctx))
		r.sessionHeader(conv.Session())
		return runChatLoop(ctx, cmd.InOrStdin(), r, conv)
	},
}

// runChatLoop reads questions line by line until EOF or /quit
func runChatLoop(ctx context.Context, in io.Reader, r *renderer, conv *internal.Conversation) error {
	r.messages(conv.Messages(), 0)
	fmt.Fprintln(r.w, r.styles.muted.Render(chatHelp))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(r.w, r.styles.user.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(r.w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			if err := conv.Clear(ctx); err != nil {
				return err
			}
			r.messages(conv.Messages(), 0)
			continue
		case "/transcript":
			r.transcript(conv.Session())
			continue
		case "/regen":
			last, ok := conv.Session().LastAssistantMessage()
			if !ok {
				internal.PrintWarning("Nothing to regenerate yet")
				continue
			}
			reply, err := regenerateWithIndicator(ctx, conv, last.ID)
			if err != nil && !errors.Is(err, internal.ErrBackendUnavailable) {
				return err
			}
			r.message(reply)
			continue
		case "/help":
			fmt.Fprintln(r.w, r.styles.muted.Render(chatHelp))
			continue
		}

		reply, err := askWithIndicator(ctx, conv, line)
		if err != nil && !errors.Is(err, internal.ErrBackendUnavailable) {
			return err
		}
		r.message(reply)
	}
}

func askWithIndicator(ctx context.Context, conv *internal.Conversation, question string) (internal.Message, error) {
	var reply internal.Message
	err := internal.TypingIndicator(ctx, func() error {
		var askErr error
		reply, askErr = conv.Ask(ctx, question)
		return askErr
	})
	return reply, err
}

func regenerateWithIndicator(ctx context.Context, conv *internal.Conversation, messageID string) (internal.Message, error) {
	var reply internal.Message
	err := internal.TypingIndicator(ctx, func() error {
		var regenErr error
		reply, regenErr = conv.Regenerate(ctx, messageID)
		return regenErr
	})
	return reply, err
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
