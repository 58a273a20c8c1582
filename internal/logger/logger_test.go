package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_RetainsLines(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf)
	l.Slog().Info("resize", "width", 800, "height", 600)
	l.Slog().Error("shader compile failed")
	lines := l.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %q; want 2", lines)
	}
	if !strings.Contains(lines[0], "msg=resize") || !strings.Contains(lines[0], "width=800") {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "level=ERROR") {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if !strings.Contains(buf.String(), "msg=resize") {
		t.Fatalf("writer did not receive the record")
	}
}

func TestLogger_BoundedHistory(t *testing.T) {
	l := newWithWriter(&bytes.Buffer{})
	for i := 0; i < maxLines+10; i++ {
		l.Slog().Info(fmt.Sprintf("event-%d", i))
	}
	lines := l.Lines()
	if len(lines) != maxLines {
		t.Fatalf("kept %d lines; want %d", len(lines), maxLines)
	}
	if !strings.Contains(lines[0], "event-10") {
		t.Fatalf("oldest line = %q; want event-10", lines[0])
	}
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.txt")
	l := New(path)
	l.Slog().Info("frame driver running")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "frame driver running") {
		t.Fatalf("log file = %q", data)
	}
}
