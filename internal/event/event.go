package event

import "github.com/signupguard/signupguard/internal/rules"

type Type string

const (
	TypeStatus             Type = "status"
	TypeAddRule            Type = "add_rule"
	TypeShowRule           Type = "show_rule"
	TypeRemoveRule         Type = "remove_rule"
	TypeDisableRules       Type = "disable_rules"
	TypeEnableRules        Type = "enable_rules"
	TypeListRules          Type = "list_rules"
	TypeHypotheticalSignup Type = "hypothetical_signup"
)

// Event is a control message for the rule engine. The set is closed; the
// producer must not touch an event after sending it.
type Event interface {
	Type() Type
	event()
}

type StatusCommand struct{}

type AddRule struct {
	Rule rules.Rule `json:"rule"`
}

type ShowRule struct {
	Name string `json:"name"`
}

type RemoveRule struct {
	Name string `json:"name"`
}

type DisableRules struct {
	Pattern string `json:"pattern"`
}

type EnableRules struct {
	Pattern string `json:"pattern"`
}

type ListRules struct{}

type HypotheticalSignup struct {
	User User `json:"user"`
}

func (StatusCommand) Type() Type      { return TypeStatus }
func (AddRule) Type() Type            { return TypeAddRule }
func (ShowRule) Type() Type           { return TypeShowRule }
func (RemoveRule) Type() Type         { return TypeRemoveRule }
func (DisableRules) Type() Type       { return TypeDisableRules }
func (EnableRules) Type() Type        { return TypeEnableRules }
func (ListRules) Type() Type          { return TypeListRules }
func (HypotheticalSignup) Type() Type { return TypeHypotheticalSignup }

func (StatusCommand) event()      {}
func (AddRule) event()            {}
func (ShowRule) event()           {}
func (RemoveRule) event()         {}
func (DisableRules) event()       {}
func (EnableRules) event()        {}
func (ListRules) event()          {}
func (HypotheticalSignup) event() {}
