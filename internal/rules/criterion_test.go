package rules

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewCriterionVariants(t *testing.T) {
	cases := []struct {
		name  string
		kind  Kind
		check Check
		value string
		code  string
		want  Spec
	}{
		{"ip", KindIP, CheckEquals, "1.2.3.4", "", Spec{Kind: KindIP, Check: CheckEquals, Value: "1.2.3.4"}},
		{"email-contains", KindEmail, CheckContains, "spam", "", Spec{Kind: KindEmail, Check: CheckContains, Value: "spam"}},
		{"email-regex", KindEmail, CheckRegex, "^a.*", "", Spec{Kind: KindEmail, Check: CheckRegex, Value: "^a.*"}},
		{"username-contains", KindUsername, CheckContains, "bot", "", Spec{Kind: KindUsername, Check: CheckContains, Value: "bot"}},
		{"username-regex", KindUsername, CheckRegex, "[0-9]{6}$", "", Spec{Kind: KindUsername, Check: CheckRegex, Value: "[0-9]{6}$"}},
		{"useragent", KindUseragent, CheckLengthLte, "12", "", Spec{Kind: KindUseragent, Check: CheckLengthLte, Value: "12"}},
		{"lua", KindLua, "$", "$", "return user.ip == '1.1.1.1'", Spec{Kind: KindLua, Value: "return user.ip == '1.1.1.1'"}},
	}

	for _, tt := range cases {
		c, err := NewCriterion(tt.kind, tt.check, tt.value, tt.code)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got := c.Spec(); got != tt.want {
			t.Fatalf("%s: expected %+v, got %+v", tt.name, tt.want, got)
		}
	}
}

func TestNewCriterionRegexKeepsSource(t *testing.T) {
	c, err := NewCriterion(KindEmail, CheckRegex, "^a.*", "")
	if err != nil {
		t.Fatalf("regex compile: %v", err)
	}
	re, ok := c.(EmailRegex)
	if !ok {
		t.Fatalf("expected EmailRegex, got %T", c)
	}
	if got := re.Spec(); got != (Spec{Kind: KindEmail, Check: CheckRegex, Value: "^a.*"}) {
		t.Fatalf("unexpected spec %+v", got)
	}
}

func TestNewCriterionErrors(t *testing.T) {
	cases := []struct {
		name  string
		kind  Kind
		check Check
		value string
		code  string
		want  error
	}{
		{"print", KindPrint, CheckEquals, "x", "", ErrPrintCriterion},
		{"print-any-check", KindPrint, "whatever", "", "", ErrPrintCriterion},
		{"unknown-kind", "phone", CheckEquals, "1", "", ErrUnsupportedCriterion},
		{"bad-check", KindIP, CheckContains, "1.2", "", ErrUnsupportedCriterion},
		{"email-length", KindEmail, CheckLengthLte, "1", "", ErrUnsupportedCriterion},
		{"bad-regex", KindUsername, CheckRegex, "(", "", ErrInvalidRegex},
		{"bad-int", KindUseragent, CheckLengthLte, "ten", "", ErrInvalidInteger},
		{"negative-int", KindUseragent, CheckLengthLte, "-1", "", ErrInvalidInteger},
		{"bad-lua", KindLua, "$", "$", "return (", ErrInvalidLua},
		{"empty-lua", KindLua, "x", "y", "", ErrInvalidLua},
	}

	for _, tt := range cases {
		_, err := NewCriterion(tt.kind, tt.check, tt.value, tt.code)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestRuleMarshalJSON(t *testing.T) {
	c, err := NewCriterion(KindEmail, CheckContains, "spam", "")
	if err != nil {
		t.Fatalf("criterion: %v", err)
	}
	rule := NewRule("spammer", c, []Action{ActionShadowban, ActionIPBan}, false, true)

	data, err := json.Marshal(rule)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if parsed["name"] != "spammer" {
		t.Fatalf("unexpected name %v", parsed["name"])
	}
	if parsed["enabled"] != true || parsed["no_delay"] != true {
		t.Fatalf("unexpected flags in %s", data)
	}
	caught, ok := parsed["most_recent_caught"].([]any)
	if !ok || len(caught) != 0 {
		t.Fatalf("expected empty history, got %v", parsed["most_recent_caught"])
	}
	criterion, ok := parsed["criterion"].(map[string]any)
	if !ok || criterion["kind"] != "email" || criterion["value"] != "spam" {
		t.Fatalf("unexpected criterion %v", parsed["criterion"])
	}
}
