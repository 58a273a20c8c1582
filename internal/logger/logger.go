package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultPath is the log file used when none is configured, relative to the working directory.
const DefaultPath = "logs/orrery.txt"

// maxLines bounds the in-memory history.
const maxLines = 256

// Logger keeps recent log lines in memory and appends every line to a file on disk and to
// stdout. Use Slog for structured logging; all records pass through the same sinks.
type Logger struct {
	mu    sync.Mutex
	lines []string
	file  *os.File
	slog  *slog.Logger
}

// New opens (creating if needed) the log file at path. If the file cannot be opened the
// logger still writes to stdout and memory.
func New(path string) *Logger {
	if path == "" {
		path = DefaultPath
	}
	l := &Logger{lines: make([]string, 0, maxLines)}
	var out io.Writer = os.Stdout
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			l.file = f
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	l.slog = slog.New(slog.NewTextHandler(io.MultiWriter(out, l), &slog.HandlerOptions{Level: slog.LevelInfo}))
	return l
}

// newWithWriter is New without a file, for tests.
func newWithWriter(w io.Writer) *Logger {
	l := &Logger{lines: make([]string, 0, maxLines)}
	l.slog = slog.New(slog.NewTextHandler(io.MultiWriter(w, l), nil))
	return l
}

// Write records each complete line in memory. It implements io.Writer for the slog handler.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		if len(l.lines) == maxLines {
			copy(l.lines, l.lines[1:])
			l.lines = l.lines[:maxLines-1]
		}
		l.lines = append(l.lines, line)
	}
	return len(p), nil
}

// Slog returns the structured logger.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Lines returns a copy of the retained lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
