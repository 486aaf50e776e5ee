package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the profile and the backend are reachable",
	Long: `Check the health of tubechat by verifying:
  • Configuration and profile paths
  • Profile database access
  • Backend availability (GET /api/health)

This command is useful for debugging a backend that is not running or a
misconfigured --api-base-url.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 tubechat Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving configuration..."))
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Config dir: %s\n", paths.ConfigDir)
			fmt.Fprintf(out, "   Backend: %s\n", cfg.APIBaseURL)
			fmt.Fprintf(out, "   Database: %s\n", cfg.DBPath)
			if cfg.RequestTimeout > 0 {
				fmt.Fprintf(out, "   Request timeout: %s\n", cfg.RequestTimeout)
			}
		}
		fmt.Fprintln(out)

		// Step 2: Profile database
		fmt.Fprintln(out, infoStyle.Render("Step 2: Opening profile database..."))
		a, err := openApp()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open profile database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer a.Close()

		ctx := cmd.Context()
		sessions, err := a.storage.List(ctx, "")
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to read sessions:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Profile database readable but empty"))
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Profile database readable (%d session(s))", len(sessions))))
		}
		fmt.Fprintln(out)

		// Step 3: Backend
		fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting backend..."))
		backendErr := checkBackend(ctx, out, a.gateway)
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if backendErr != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			fmt.Fprintln(out, "   • Profile: Available")
			fmt.Fprintln(out, "   • Backend: Unreachable")
			return fmt.Errorf("health check failed: %w", backendErr)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		fmt.Fprintln(out, successStyle.Render("   • Profile: Available"))
		fmt.Fprintln(out, successStyle.Render("   • Backend: Healthy"))
		return nil
	},
}

func checkBackend(ctx context.Context, out io.Writer, gateway *internal.Gateway) error {
	start := time.Now()
	err := gateway.Health(ctx)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), err)
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Expected: %s/api/health\n", gateway.BaseURL())
		}
		return err
	}
	fmt.Fprintln(out, successStyle.Render("✅ Backend healthy"))
	if healthcheckVerbose {
		fmt.Fprintf(out, "   Responded in %s\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
