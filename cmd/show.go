package cmd

import (
	"fmt"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

var (
	limit          int
	showTranscript bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show messages for a specific session",
	Long:  `Display the video details and conversation of a stored chat session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		session, found, err := a.storage.GetByID(ctx, args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("session not found: %s (use 'tubechat list' to see available sessions)", args[0])
		}

		messages := session.Messages
		if len(messages) == 0 {
			messages = []internal.Message{internal.Greeting()}
		}

		r := newRenderer(cmd.OutOrStdout(), a.theme(ctx))
		r.sessionHeader(session)
		if showTranscript {
			r.transcript(session)
		}
		r.messages(messages, limit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N messages")
	showCmd.Flags().BoolVar(&showTranscript, "transcript", false, "Also print the video transcript")
}
