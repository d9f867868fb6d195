package logging

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/signupguard/signupguard/internal/event"
)

// EventRecord is one forwarded event in the journal the rule engine tails.
type EventRecord struct {
	Timestamp time.Time   `json:"ts"`
	Type      event.Type  `json:"type"`
	Event     event.Event `json:"event"`
}

type EventJournal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewEventJournal(w io.Writer) *EventJournal {
	return &EventJournal{w: w}
}

func OpenEventJournal(path string) (*EventJournal, func() error, error) {
	w, closer, err := openAppend(path)
	if err != nil {
		return nil, nil, err
	}
	return NewEventJournal(w), closer, nil
}

func NewEventRecord(ev event.Event, now time.Time) EventRecord {
	return EventRecord{Timestamp: now.UTC(), Type: ev.Type(), Event: ev}
}

func (j *EventJournal) Write(rec EventRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.w.Write(append(data, '\n'))
	return err
}
