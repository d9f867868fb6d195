package command

import (
	"context"
	"errors"
	"testing"

	"github.com/signupguard/signupguard/internal/event"
	"github.com/signupguard/signupguard/internal/maintenance"
)

type recordingSender struct {
	events []event.Event
	err    error
}

func (s *recordingSender) Send(ctx context.Context, ev event.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

type fakeLauncher struct {
	launched []maintenance.Script
	err      error
}

func (l *fakeLauncher) Launch(ctx context.Context, script maintenance.Script) error {
	l.launched = append(l.launched, script)
	return l.err
}

func newTestInterpreter(t *testing.T) (*Interpreter, *recordingSender, *fakeLauncher) {
	t.Helper()
	sender := &recordingSender{}
	launcher := &fakeLauncher{}
	interp, err := New(sender, launcher)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return interp, sender, launcher
}

func requireParseError(t *testing.T, err error, kind ErrorKind, message string) {
	t.Helper()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if perr.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, perr.Kind, perr.Err)
	}
	if message != "" && perr.Message != message {
		t.Fatalf("expected message %q, got %q", message, perr.Message)
	}
}
