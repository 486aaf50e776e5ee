package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/iksnae/tubechat/internal"
	"github.com/iksnae/tubechat/internal/export"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const exportWorkers = 4

var (
	format    string
	outputDir string
	sessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export chat sessions to various formats (jsonl, md, yaml, json).

You can export all sessions or a specific session by ID. Each session is
written to <out>/<session-id>.<ext>.
Use 'tubechat list' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate the format before touching the profile
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var sessions []*internal.ChatSession
		if sessionID != "" {
			session, found, err := a.storage.GetByID(ctx, sessionID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("session not found: %s (use 'tubechat list' to see available sessions)", sessionID)
			}
			sessions = append(sessions, session)
		} else {
			sessions, err = a.storage.List(ctx, internal.SortCreatedDesc)
			if err != nil {
				return fmt.Errorf("failed to load sessions: %w", err)
			}
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		var exported atomic.Int64
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), outputDir), func() error {
			n, exportErr := exportSessions(ctx, sessions, exporter, outputDir)
			exported.Store(int64(n))
			return exportErr
		})
		if err != nil {
			return err
		}
		if want := countSessions(sessions); int(exported.Load()) < want {
			return fmt.Errorf("export incomplete: %d of %d session(s) written to %s", exported.Load(), want, outputDir)
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d session(s) exported to %s", exported.Load(), outputDir))
		return nil
	},
}

// exportSessions writes each session to its own file. A failing session is
// logged and skipped; only context cancellation aborts the run.
func exportSessions(ctx context.Context, sessions []*internal.ChatSession, exporter export.Exporter, dir string) (int, error) {
	var exported atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportWorkers)
	for _, session := range sessions {
		if session == nil {
			internal.LogWarn("Skipping nil session")
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := exportSession(session, exporter, dir); err != nil {
				internal.LogError("%v", err)
				return nil
			}
			exported.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(exported.Load()), err
}

func countSessions(sessions []*internal.ChatSession) int {
	n := 0
	for _, s := range sessions {
		if s != nil {
			n++
		}
	}
	return n
}

func exportSession(session *internal.ChatSession, exporter export.Exporter, dir string) error {
	path := filepath.Join(dir, export.FileName(session, exporter))

	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(session, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
}
