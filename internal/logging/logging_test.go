package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerTo_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := WithClip(WithRunID(NewLoggerTo(&buf, "info"), "run-1"), "walk_01")

	logger.Debug("hidden")
	logger.Info("clip exported", "frames", 31)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "clip exported" || entry["run_id"] != "run-1" || entry["clip"] != "walk_01" {
		t.Errorf("entry = %v", entry)
	}
	if entry["frames"] != float64(31) {
		t.Errorf("frames = %v, want 31", entry["frames"])
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken("short"); got != "****" {
		t.Errorf("SanitizeToken(short) = %q", got)
	}
	if got := SanitizeToken("abcdefghijkl"); got != "abcd...ijkl" {
		t.Errorf("SanitizeToken = %q", got)
	}
}

func TestSanitizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "/" {
		t.Skip("no usable home directory")
	}
	if got := SanitizePath(filepath.Join(home, "exports", "walk.bsi")); got != "~"+string(filepath.Separator)+filepath.Join("exports", "walk.bsi") {
		t.Errorf("SanitizePath = %q", got)
	}
	if got := SanitizePath("/elsewhere/walk.bsi"); got != "/elsewhere/walk.bsi" {
		t.Errorf("SanitizePath = %q", got)
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) = nil")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Error("OrDiscard should return the given logger")
	}
}
