package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/signupguard/signupguard/internal/event"
	"github.com/signupguard/signupguard/internal/logging"
	"github.com/signupguard/signupguard/internal/maintenance"
	"github.com/signupguard/signupguard/internal/observability"
)

// Handler turns one chat command into an optional reply. An empty reply means
// nothing is written back.
type Handler interface {
	Handle(ctx context.Context, text string) (string, error)
}

type Interpreter struct {
	events     event.Sender
	launcher   maintenance.Launcher
	commandLog *logging.CommandLogger
	metrics    *observability.Metrics
	log        *logging.Logger
}

func New(events event.Sender, launcher maintenance.Launcher) (*Interpreter, error) {
	if events == nil {
		return nil, errors.New("event sender is required")
	}
	if launcher == nil {
		return nil, errors.New("launcher is required")
	}
	return &Interpreter{
		events:   events,
		launcher: launcher,
		log:      logging.New("command"),
	}, nil
}

func (i *Interpreter) SetCommandLog(l *logging.CommandLogger) {
	i.commandLog = l
}

func (i *Interpreter) SetMetrics(m *observability.Metrics) {
	i.metrics = m
}

// Handle parses text and emits at most one event. Nothing is emitted when any
// validation step fails.
func (i *Interpreter) Handle(ctx context.Context, text string) (string, error) {
	start := time.Now()

	reply, ev, err := i.dispatch(ctx, text)
	if err == nil && ev != nil {
		if sendErr := i.events.Send(ctx, ev); sendErr != nil {
			err = fmt.Errorf("forward %s event: %w", ev.Type(), sendErr)
		}
	}

	i.record(text, start, reply, ev, err)
	return reply, err
}

func (i *Interpreter) dispatch(ctx context.Context, text string) (string, event.Event, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil, tooFewTokens(1, 0)
	}

	switch fields[0] {
	case "status":
		return "", event.StatusCommand{}, nil
	case "signup":
		ev, err := signupCommand(parseCommandLine(text))
		return "", ev, err
	case "upgrade":
		return i.launch(ctx, maintenance.ScriptUpgrade), nil, nil
	case "restart":
		return i.launch(ctx, maintenance.ScriptRestart), nil, nil
	default:
		return "", nil, genericError(fmt.Errorf("unknown command %q", fields[0]))
	}
}

func (i *Interpreter) launch(ctx context.Context, script maintenance.Script) string {
	if err := i.launcher.Launch(ctx, script); err != nil {
		i.log.Warn("launch %s failed: %v", script, err)
		return ReplyExternalFailed
	}
	return ""
}

func (i *Interpreter) record(text string, start time.Time, reply string, ev event.Event, err error) {
	if i.commandLog == nil && i.metrics == nil {
		return
	}

	rec := logging.CommandRecord{
		Timestamp:  start.UTC(),
		Command:    commandLabel(text),
		Text:       text,
		Result:     logging.ResultOK,
		Reply:      reply,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Result = logging.ResultError
		rec.ErrorKind = string(KindOf(err))
		rec.Reply = ReplyFor(err)
	} else if ev != nil {
		rec.Event = string(ev.Type())
	}

	if writeErr := i.commandLog.Write(rec); writeErr != nil {
		i.log.Warn("write command log: %v", writeErr)
	}
	i.metrics.ObserveCommand(rec)
}

var signupSubcommands = map[string]struct{}{
	"add": {}, "show": {}, "remove": {}, "disable-re": {}, "enable-re": {}, "list": {}, "test": {},
}

// commandLabel names a command for logs and metrics with bounded cardinality.
func commandLabel(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "empty"
	}
	switch fields[0] {
	case "status", "upgrade", "restart":
		return fields[0]
	case "signup":
		if len(fields) >= 3 && fields[1] == "rules" {
			if _, ok := signupSubcommands[fields[2]]; ok {
				return "signup rules " + fields[2]
			}
		}
		return "signup"
	default:
		return "unknown"
	}
}
