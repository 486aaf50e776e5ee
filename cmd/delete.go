package cmd

import (
	"fmt"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

var deleteForget bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a stored chat session",
	Long: `Remove a chat session from the local profile.

With --forget the backend is also asked to drop its index for the video.`,
	Args: cobra.ExactArgs(1),
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
			internal.PrintWarning(fmt.Sprintf("Session %s does not exist", args[0]))
			return nil
		}

		if err := a.storage.Delete(ctx, session.ID); err != nil {
			return err
		}

		if deleteForget && session.VideoID != "" {
			if err := a.gateway.ForgetVideo(ctx, session.VideoID); err != nil {
				internal.PrintWarning(fmt.Sprintf("Session deleted, but the backend kept video %s: %v", session.VideoID, err))
				return nil
			}
		}

		internal.PrintSuccess(fmt.Sprintf("Deleted session %s", session.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteForget, "forget", false, "Also remove the video from the backend index")
}
