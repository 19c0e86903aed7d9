package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDualHandlerMirrorsErrorsToSecondary(t *testing.T) {
	var primaryBuf bytes.Buffer
	var secondaryBuf bytes.Buffer

	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	secondary := slog.NewTextHandler(&secondaryBuf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewDualHandler(primary, secondary))

	logger.Error("boom", slog.String("foo", "bar"))
	logger.Info("still going")

	if got := primaryBuf.String(); !strings.Contains(got, "boom") || !strings.Contains(got, "still going") {
		t.Fatalf("expected primary log to contain both messages, got %q", got)
	}

	if got := secondaryBuf.String(); !strings.Contains(got, "boom") {
		t.Fatalf("expected secondary log to contain error message, got %q", got)
	}

	if got := secondaryBuf.String(); strings.Contains(got, "still going") {
		t.Fatalf("secondary log should not contain info message, got %q", got)
	}
}

func TestDualHandlerWithoutSecondary(t *testing.T) {
	var primaryBuf bytes.Buffer

	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(NewDualHandler(primary, nil))

	logger.Error("boom")

	if got := primaryBuf.String(); !strings.Contains(got, "boom") {
		t.Fatalf("expected primary log to contain error message, got %q", got)
	}
}

func TestConfigLevelStringToSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelError,
	}
	for in, want := range cases {
		if got := ConfigLevelStringToSlogLevel(in); got != want {
			t.Fatalf("level %q: expected %v, got %v", in, want, got)
		}
	}
}
