package cmd

import (
	"fmt"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

// themeCmd represents the theme command
var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the display theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(internal.ThemeDark), string(internal.ThemeLight)},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if len(args) == 0 {
			theme, err := a.storage.Theme(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		}

		theme, err := internal.ParseTheme(args[0])
		if err != nil {
			return err
		}
		if err := a.storage.SetTheme(ctx, theme); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Theme set to %s", theme))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
