package rules

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseActions(t *testing.T) {
	got, err := ParseActions("shadowban+engine+boost+ipban+close+panic+notify")
	if err != nil {
		t.Fatalf("ParseActions error: %v", err)
	}
	if diff := cmp.Diff(Actions, got); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseActionsRejectsWholeField(t *testing.T) {
	cases := map[string]error{
		"shadowban+bogus":      ErrUnknownAction,
		"bogus":                ErrUnknownAction,
		"shadowban+":           ErrUnknownAction,
		"ipban+ipban":          ErrDuplicateAction,
		"":                     ErrNoActions,
		"Shadowban":            ErrUnknownAction,
		"close+notify+engine+": ErrUnknownAction,
	}

	for field, want := range cases {
		actions, err := ParseActions(field)
		if !errors.Is(err, want) {
			t.Fatalf("ParseActions(%q) expected %v, got %v", field, want, err)
		}
		if actions != nil {
			t.Fatalf("ParseActions(%q) returned partial set %v", field, actions)
		}
	}
}
