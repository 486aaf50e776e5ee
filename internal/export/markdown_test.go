package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/tubechat/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.ChatSession
		want    []string
	}{
		{
			name:    "basic session",
			session: internal.CreateTestSession("chat_1"),
			want: []string{
				"# Test Video",
				"**Video:** https://www.youtube.com/watch?v=abc123DEF01",
				"**Duration:** 10:30",
				"**Messages:** 3",
				"## Conversation",
				"**You:**",
				"What is discussed?",
				"**Assistant:**",
				"Topic X",
			},
		},
		{
			name: "untitled session",
			session: &internal.ChatSession{
				ID:       "chat_2",
				VideoID:  "zzzzzzzzzzz",
				Messages: []internal.Message{},
			},
			want: []string{
				"# YouTube Video zzzzzzzzzzz",
				"**Messages:** 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.session, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Output should contain %q\nOutput: %s", want, output)
				}
			}
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bold outside code",
			input: "this is **bold**",
			want:  "this is \\*\\*bold\\*\\*",
		},
		{
			name:  "bold inside code block",
			input: "```\n**kept**\n```",
			want:  "```\n**kept**\n```",
		},
		{
			name:  "plain text",
			input: "nothing to do",
			want:  "nothing to do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.input); got != tt.want {
				t.Errorf("escapeMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	if got := (&MarkdownExporter{}).Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}
