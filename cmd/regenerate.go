package cmd

import (
	"errors"
	"fmt"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

// regenerateCmd represents the regenerate command
var regenerateCmd = &cobra.Command{
	Use:   "regenerate <session-id> [message-id]",
	Short: "Regenerate an assistant answer",
	Long: `Ask the backend again for one of the assistant's answers and replace it.

Without a message id the most recent answer is regenerated. Message ids are
shown next to each answer by 'tubechat show'.`,
	Args: cobra.RangeArgs(1, 2),
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
				return fmt.Errorf("session not found: %s", args[0])
			}
			return err
		}

		var messageID string
		if len(args) == 2 {
			messageID = args[1]
		} else {
			last, ok := conv.Session().LastAssistantMessage()
			if !ok {
				return fmt.Errorf("%w: session %s has no answers yet", internal.ErrNotRegenerable, args[0])
			}
			messageID = last.ID
		}

		reply, err := regenerateWithIndicator(ctx, conv, messageID)
		if reply.ID != "" {
			newRenderer(cmd.OutOrStdout(), a.theme(ctx)).message(reply)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(regenerateCmd)
}
