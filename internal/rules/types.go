package rules

import "encoding/json"

type Action string

const (
	ActionShadowban       Action = "shadowban"
	ActionEngineMark      Action = "engine"
	ActionBoostMark       Action = "boost"
	ActionIPBan           Action = "ipban"
	ActionClose           Action = "close"
	ActionEnableChatPanic Action = "panic"
	ActionNotifySlack     Action = "notify"
)

// Actions lists every action in the order operators see them in help output.
var Actions = []Action{
	ActionShadowban,
	ActionEngineMark,
	ActionBoostMark,
	ActionIPBan,
	ActionClose,
	ActionEnableChatPanic,
	ActionNotifySlack,
}

// Rule is created by the command layer and owned by the rule engine afterwards.
type Rule struct {
	Name             string
	Criterion        Criterion
	Actions          []Action
	MatchCount       int
	MostRecentCaught []string
	NoDelay          bool
	Enabled          bool
	SuspIP           bool
}

func NewRule(name string, criterion Criterion, actions []Action, suspIP, noDelay bool) Rule {
	return Rule{
		Name:             name,
		Criterion:        criterion,
		Actions:          append([]Action(nil), actions...),
		MatchCount:       0,
		MostRecentCaught: []string{},
		NoDelay:          noDelay,
		Enabled:          true,
		SuspIP:           suspIP,
	}
}

type ruleJSON struct {
	Name             string   `json:"name"`
	Criterion        Spec     `json:"criterion"`
	Actions          []Action `json:"actions"`
	MatchCount       int      `json:"match_count"`
	MostRecentCaught []string `json:"most_recent_caught"`
	NoDelay          bool     `json:"no_delay"`
	Enabled          bool     `json:"enabled"`
	SuspIP           bool     `json:"susp_ip"`
}

func (r Rule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{
		Name:             r.Name,
		Actions:          r.Actions,
		MatchCount:       r.MatchCount,
		MostRecentCaught: r.MostRecentCaught,
		NoDelay:          r.NoDelay,
		Enabled:          r.Enabled,
		SuspIP:           r.SuspIP,
	}
	if r.Criterion != nil {
		out.Criterion = r.Criterion.Spec()
	}
	return json.Marshal(out)
}
