package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"
)

const maxText = 256

const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultRateLimited = "rate_limited"
)

// CommandRecord is written as a single JSON object per handled command.
type CommandRecord struct {
	Timestamp  time.Time `json:"ts"`
	Command    string    `json:"command"`
	Text       string    `json:"text"`
	Result     string    `json:"result"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Reply      string    `json:"reply,omitempty"`
	Event      string    `json:"event,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

type CommandLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func NewCommandLogger(w io.Writer) *CommandLogger {
	return &CommandLogger{w: w}
}

func OpenCommandLog(path string) (*CommandLogger, func() error, error) {
	w, closer, err := openAppend(path)
	if err != nil {
		return nil, nil, err
	}
	return NewCommandLogger(w), closer, nil
}

func (l *CommandLogger) Write(rec CommandRecord) error {
	if l == nil {
		return nil
	}
	rec.Text = truncate(rec.Text, maxText)

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(append(data, '\n'))
	return err
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func openAppend(path string) (io.Writer, func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
