package cmd

import (
	"fmt"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

var startInteractive bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <youtube-url|video-id>",
	Short: "Start a new chat about a video",
	Long: `Fetch the transcript for a YouTube video and create a new chat session.

Accepts watch, youtu.be, embed and shorts links as well as bare 11 character
video ids. If the transcript cannot be fetched the session is still created
with a placeholder so questions can be retried once the backend recovers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, ok := internal.ExtractVideoID(args[0])
		if !ok {
			return fmt.Errorf("invalid YouTube URL or video ID: %s", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var conv *internal.Conversation
		err = internal.ShowProgress(ctx, "Fetching transcript...", func() error {
			var startErr error
			conv, startErr = a.chats.StartChat(ctx, videoID)
			return startErr
		})
		if err != nil {
			return err
		}

		if fetchErr := conv.TranscriptError(); fetchErr != nil {
			internal.PrintWarning(fmt.Sprintf("Transcript unavailable: %v", fetchErr))
		}

		r := newRenderer(cmd.OutOrStdout(), a.theme(ctx))
		r.sessionHeader(conv.Session())

		if !startInteractive {
			r.messages(conv.Messages(), 0)
			internal.PrintSuccess(fmt.Sprintf("Chat started. Continue with: tubechat chat %s", conv.Session().ID))
			return nil
		}
		return runChatLoop(ctx, cmd.InOrStdin(), r, conv)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().BoolVarP(&startInteractive, "interactive", "i", false, "Enter the chat loop after starting")
}
