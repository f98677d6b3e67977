package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, format string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(buf, levelVar)
	default:
		handler = newConsoleHandler(buf, levelVar)
	}
	return slog.New(handler), buf
}

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	WithComponent(logger, "worker").Info("re-encoded",
		String("path", "/music/a b.mp3"),
		Float64("gain", 6.2),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO worker: re-encoded") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, `path="/music/a b.mp3"`) {
		t.Fatalf("expected quoted path attr, got %q", line)
	}
	if !strings.Contains(line, "gain=6.2") {
		t.Fatalf("expected gain attr, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should render as prefix, got %q", line)
	}
}

func TestConsoleHandlerFormatsErrors(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	logger.Warn("encode failed", Error(errors.New("exit status 1")))

	line := buf.String()
	if !strings.Contains(line, `error="exit status 1"`) {
		t.Fatalf("unexpected error formatting: %q", line)
	}
}

func TestJSONHandlerUsesShortKeys(t *testing.T) {
	logger, buf := newBufferLogger(t, "json")
	logger.Info("summary", Int("ok", 2))

	line := buf.String()
	for _, want := range []string{`"ts":`, `"level":"info"`, `"msg":"summary"`, `"ok":2`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestBestEffortWriterSwallowsErrors(t *testing.T) {
	var w io.Writer = bestEffortWriter{failingWriter{}}
	n, err := w.Write([]byte("log line"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != len("log line") {
		t.Fatalf("expected full length reported, got %d", n)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", String("k", "v"))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
