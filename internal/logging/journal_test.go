package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/signupguard/signupguard/internal/event"
	"github.com/signupguard/signupguard/internal/rules"
)

func TestEventJournalWritesTypedRecords(t *testing.T) {
	var buf bytes.Buffer
	journal := NewEventJournal(&buf)

	criterion, err := rules.NewCriterion(rules.KindIP, rules.CheckEquals, "1.2.3.4", "")
	if err != nil {
		t.Fatalf("criterion: %v", err)
	}
	ev := event.AddRule{Rule: rules.NewRule("badip", criterion, []rules.Action{rules.ActionIPBan}, true, false)}

	if err := journal.Write(NewEventRecord(ev, time.Unix(10, 0))); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed struct {
		Type  string `json:"type"`
		Event struct {
			Rule struct {
				Name    string   `json:"name"`
				Actions []string `json:"actions"`
				SuspIP  bool     `json:"susp_ip"`
			} `json:"rule"`
		} `json:"event"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &parsed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if parsed.Type != string(event.TypeAddRule) {
		t.Fatalf("unexpected type %q", parsed.Type)
	}
	if parsed.Event.Rule.Name != "badip" || !parsed.Event.Rule.SuspIP {
		t.Fatalf("unexpected rule %+v", parsed.Event.Rule)
	}
	if len(parsed.Event.Rule.Actions) != 1 || parsed.Event.Rule.Actions[0] != "ipban" {
		t.Fatalf("unexpected actions %v", parsed.Event.Rule.Actions)
	}
}
