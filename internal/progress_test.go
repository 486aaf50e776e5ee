package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgress_LogsMessageVerbatim(t *testing.T) {
	originalLevel := logLevel
	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(LogLevelDebug)
	defer func() {
		SetLogOutput(os.Stderr)
		SetLogLevel(originalLevel)
	}()

	// outside a terminal the message goes to the debug log
	err := ShowProgress(context.Background(), "Exporting 1 session(s) to /tmp/100%done", func() error {
		return nil
	})
	if err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}
	if !strings.Contains(buf.String(), "/tmp/100%done") {
		t.Errorf("log output should keep %% signs intact, got %q", buf.String())
	}
}

func TestShowSpinner_DrawsFrames(t *testing.T) {
	var buf bytes.Buffer
	err := showSpinner(context.Background(), &buf, "Assistant is typing...", func() error {
		time.Sleep(250 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showSpinner() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Assistant is typing...") {
		t.Errorf("spinner output should contain the message, got %q", buf.String())
	}
}

func TestShowSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := showSpinner(ctx, &buf, "Testing", func() error {
		time.Sleep(300 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("showSpinner() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTypingIndicator(t *testing.T) {
	called := false
	err := TypingIndicator(context.Background(), func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("TypingIndicator() error = %v", err)
	}
	if !called {
		t.Error("TypingIndicator() should run the function")
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("isTerminal() should be false for a buffer")
	}
}
