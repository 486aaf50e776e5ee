package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/iksnae/tubechat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	apiBaseURL string
	dbPath     string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	// resolved in PersistentPreRunE
	cfg   *internal.Config
	paths internal.ProfilePaths
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tubechat",
	Short: "Chat with YouTube videos from the terminal",
	Long: `A CLI client for asking questions about YouTube videos.

tubechat sends a video's transcript to a question-answering backend and keeps
every conversation in a local profile database so it can be resumed later.

Features:
  • Start a chat from any YouTube link or video id
  • Resume, regenerate and clear past conversations
  • Light and dark display themes
  • Export conversations (JSONL, Markdown, YAML, JSON)

Quick Start:
  tubechat start https://youtu.be/<id> -i   # Start chatting about a video
  tubechat list                             # List past chats
  tubechat chat <session-id>                # Resume a chat

The backend address defaults to http://localhost:8000 and can be changed with
--api-base-url, TUBECHAT_API_BASE_URL or api_base_url in the config file.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		detected, err := internal.DetectProfilePaths()
		if err != nil {
			return fmt.Errorf("failed to detect profile paths: %w", err)
		}
		paths = detected

		v := internal.NewViper(paths)
		if err := v.BindPFlag("api_base_url", cmd.Flags().Lookup("api-base-url")); err != nil {
			return err
		}
		if err := v.BindPFlag("db_path", cmd.Flags().Lookup("db")); err != nil {
			return err
		}

		loaded, err := internal.LoadConfig(v, configFile, paths)
		if err != nil {
			return err
		}
		cfg = loaded
		internal.LogDebug("Using backend %s and database %s", cfg.APIBaseURL, cfg.DBPath)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

// app bundles the components a command works with
type app struct {
	storage *internal.Storage
	gateway *internal.Gateway
	chats   *internal.ChatService
}

// openApp opens the profile database and wires the store, gateway and chat service
func openApp() (*app, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	db, err := internal.OpenDatabase(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile database: %w", err)
	}

	storage := internal.NewStorage(db)
	gateway := internal.NewGateway(cfg.APIBaseURL,
		internal.WithRequestTimeout(cfg.RequestTimeout),
		internal.WithRateLimit(cfg.RequestsPerSecond),
	)
	return &app{
		storage: storage,
		gateway: gateway,
		chats:   internal.NewChatService(storage, gateway),
	}, nil
}

func (a *app) Close() {
	if err := a.storage.DB().Close(); err != nil {
		internal.LogWarn("Failed to close database: %v", err)
	}
}

// theme resolves the display theme: config override first, then the stored preference
func (a *app) theme(ctx context.Context) internal.Theme {
	if cfg != nil && cfg.Theme != "" {
		if t, err := internal.ParseTheme(cfg.Theme); err == nil {
			return t
		}
		internal.LogWarn("Ignoring invalid theme %q in config", cfg.Theme)
	}
	t, err := a.storage.Theme(ctx)
	if err != nil {
		internal.LogDebug("Falling back to dark theme: %v", err)
	}
	return t
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default <config dir>/tubechat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", "", "Backend base URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Profile database path")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
