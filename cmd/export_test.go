package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/tubechat/internal"
	"github.com/iksnae/tubechat/internal/export"
)

func TestExportCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "export with invalid format",
			args:    []string{"export", "--format", "invalid"},
			wantErr: true,
		},
		{
			name:    "export unknown session",
			args:    []string{"export", "--session-id", "missing"},
			wantErr: true,
		},
		{
			name:    "export empty profile",
			args:    []string{"export", "--format", "yaml"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := isolate(t)
			args := append(tt.args, "--db", db, "--out", t.TempDir())
			_, err := run(t, args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("exportCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExportSessions(t *testing.T) {
	dir := t.TempDir()
	exporter, err := export.NewExporter("jsonl")
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}

	sessions := []*internal.ChatSession{
		internal.CreateTestSession("chat_1"),
		nil,
		internal.CreateTestSession("chat_2"),
		internal.CreateTestSession("chat_3"),
	}

	n, err := exportSessions(context.Background(), sessions, exporter, dir)
	if err != nil {
		t.Fatalf("exportSessions() error = %v", err)
	}
	if n != 3 {
		t.Errorf("exportSessions() exported %d, want 3", n)
	}
	for _, id := range []string{"chat_1", "chat_2", "chat_3"} {
		if _, err := os.Stat(filepath.Join(dir, id+".jsonl")); err != nil {
			t.Errorf("missing %s.jsonl: %v", id, err)
		}
	}
}

func TestExportSessions_UnwritableDir(t *testing.T) {
	exporter, _ := export.NewExporter("json")
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")

	n, err := exportSessions(context.Background(), []*internal.ChatSession{internal.CreateTestSession("chat_1")}, exporter, missing)
	if err != nil {
		t.Fatalf("exportSessions() should skip failing sessions, got %v", err)
	}
	if n != 0 {
		t.Errorf("exportSessions() exported %d, want 0", n)
	}
}

func TestExportSessions_Cancelled(t *testing.T) {
	exporter, _ := export.NewExporter("json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exportSessions(ctx, []*internal.ChatSession{internal.CreateTestSession("chat_1")}, exporter, t.TempDir())
	if err == nil {
		t.Error("exportSessions() should stop on a cancelled context")
	}
}
