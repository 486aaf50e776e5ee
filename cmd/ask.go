package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <session-id> <question...>",
	Short: "Ask a single question in a stored chat",
	Args:  cobra.MinimumNArgs(2),
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

		question := internal.ExtractQuestion(strings.Join(args[1:], " "))
		reply, err := askWithIndicator(ctx, conv, question)
		if reply.ID != "" {
			newRenderer(cmd.OutOrStdout(), a.theme(ctx)).message(reply)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
