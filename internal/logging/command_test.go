package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestCommandLoggerWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	logger := NewCommandLogger(&buf)

	rec := CommandRecord{
		Timestamp: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
		Command:   "signup rules add",
		Text:      strings.Repeat("a", 400),
		Result:    ResultOK,
		Event:     "add_rule",
	}
	if err := logger.Write(rec); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := logger.Write(CommandRecord{Command: "status", Result: ResultOK}); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var parsed CommandRecord
	if err := json.Unmarshal([]byte(lines[0]), &parsed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(parsed.Text) != maxText {
		t.Fatalf("expected text length %d, got %d", maxText, len(parsed.Text))
	}
	if parsed.Event != "add_rule" {
		t.Fatalf("unexpected event %q", parsed.Event)
	}
}

func TestNilCommandLoggerIsNoop(t *testing.T) {
	var logger *CommandLogger
	if err := logger.Write(CommandRecord{}); err != nil {
		t.Fatalf("expected nil logger to ignore writes: %v", err)
	}
}

func TestOpenCommandLogCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "commands.jsonl")
	logger, closer, err := OpenCommandLog(path)
	if err != nil {
		t.Fatalf("OpenCommandLog error: %v", err)
	}
	defer func() { _ = closer() }()

	if err := logger.Write(CommandRecord{Command: "status", Result: ResultOK}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"status", 10, "status"},
		{"abcdef", 3, "abc"},
		{"aé", 2, "a"},
		{"日本語", 4, "日"},
		{"日本語", 2, ""},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.n)
		if got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.n)
		}
	}
}

func TestCommandLogMultibyteTextStaysValid(t *testing.T) {
	var buf bytes.Buffer
	logger := NewCommandLogger(&buf)
	text := "a" + strings.Repeat("é", maxText)
	if err := logger.Write(CommandRecord{Command: "unknown", Text: text, Result: ResultError}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	var parsed CommandRecord
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if strings.ContainsRune(parsed.Text, utf8.RuneError) {
		t.Fatalf("text contains replacement character")
	}
	if len(parsed.Text) != maxText-1 {
		t.Fatalf("expected %d bytes, got %d", maxText-1, len(parsed.Text))
	}
}
