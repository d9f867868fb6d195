package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/signupguard/signupguard/internal/event"
	"github.com/signupguard/signupguard/internal/rules"
)

// Token positions of "rules add <name> <if> <kind> <check> <value> then <actions> [nodelay]".
const (
	posSubcommand  = 1
	posName        = 2
	posConjunction = 3
	posKind        = 4
	posCheck       = 5
	posValue       = 6
	posThen        = 7
	posActions     = 8
	posNoDelay     = 9
)

const (
	keywordRules   = "rules"
	keywordThen    = "then"
	keywordNoDelay = "nodelay"
)

// conjunctions maps the accepted "if" tokens to the susp_ip flag.
var conjunctions = map[string]bool{
	"if":         false,
	"if_susp_ip": true,
	"if_ip_susp": true,
}

// Conjunctions returns the accepted "if" tokens in sorted order.
func Conjunctions() []string {
	out := make([]string, 0, len(conjunctions))
	for c := range conjunctions {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func signupCommand(line commandLine) (event.Event, error) {
	first, err := line.arg(0)
	if err != nil {
		return nil, err
	}
	if first != keywordRules {
		return nil, genericError(fmt.Errorf("expected %q, got %q", keywordRules, first))
	}

	sub, err := line.arg(posSubcommand)
	if err != nil {
		return nil, err
	}

	switch sub {
	case "add":
		return addRule(line)
	case "show":
		name, err := line.arg(posName)
		if err != nil {
			return nil, err
		}
		return event.ShowRule{Name: name}, nil
	case "remove":
		name, err := line.arg(posName)
		if err != nil {
			return nil, err
		}
		return event.RemoveRule{Name: name}, nil
	case "disable-re":
		pattern, err := line.arg(posName)
		if err != nil {
			return nil, err
		}
		return event.DisableRules{Pattern: pattern}, nil
	case "enable-re":
		pattern, err := line.arg(posName)
		if err != nil {
			return nil, err
		}
		return event.EnableRules{Pattern: pattern}, nil
	case "list":
		return event.ListRules{}, nil
	case "test":
		user, err := decodeTestUser(line.code)
		if err != nil {
			return nil, err
		}
		return event.HypotheticalSignup{User: user}, nil
	default:
		return nil, genericError(fmt.Errorf("unknown rules subcommand %q", sub))
	}
}

func addRule(line commandLine) (event.Event, error) {
	conj, err := line.arg(posConjunction)
	if err != nil {
		return nil, err
	}
	suspIP, ok := conjunctions[conj]
	if !ok {
		return nil, genericError(fmt.Errorf("unknown conjunction %q", conj))
	}
	then, err := line.arg(posThen)
	if err != nil {
		return nil, err
	}
	if then != keywordThen {
		return nil, genericError(fmt.Errorf("expected %q, got %q", keywordThen, then))
	}

	name, err := line.arg(posName)
	if err != nil {
		return nil, err
	}
	kind, err := line.arg(posKind)
	if err != nil {
		return nil, err
	}
	check, err := line.arg(posCheck)
	if err != nil {
		return nil, err
	}
	value, err := line.arg(posValue)
	if err != nil {
		return nil, err
	}

	criterion, err := rules.NewCriterion(rules.Kind(kind), rules.Check(check), value, line.code)
	if err != nil {
		return nil, criterionError(err)
	}

	field, err := line.arg(posActions)
	if err != nil {
		return nil, err
	}
	actions, err := rules.ParseActions(field)
	if err != nil {
		return nil, genericError(err)
	}

	noDelay := false
	if tok, ok := line.optional(posNoDelay); ok {
		noDelay = tok == keywordNoDelay
	}

	return event.AddRule{Rule: rules.NewRule(name, criterion, actions, suspIP, noDelay)}, nil
}

func criterionError(err error) *ParseError {
	var valueErr *rules.ValueError
	switch {
	case errors.Is(err, rules.ErrPrintCriterion):
		return parseError(KindPrintRedirect, MsgPrintRedirect, err)
	case errors.Is(err, rules.ErrInvalidRegex) && errors.As(err, &valueErr):
		return parseError(KindBadRegex, fmt.Sprintf("%s: %v", MsgBadRegex, valueErr.Cause), err)
	case errors.Is(err, rules.ErrInvalidInteger):
		return parseError(KindBadInteger, MsgBadInteger, err)
	case errors.Is(err, rules.ErrInvalidLua):
		return parseError(KindBadLua, MsgBadLua, err)
	default:
		return genericError(err)
	}
}

// decodeTestUser reads the JSON user of a "test" command. Chat renders the
// email as a link, "<mailto:a@b.com|a@b.com>", so the address is taken from
// the part after the pipe.
func decodeTestUser(code string) (event.User, error) {
	var user event.User
	if err := json.Unmarshal([]byte(code), &user); err != nil {
		return event.User{}, parseError(KindBadJSON, MsgBadJSON, err)
	}

	email, err := unwrapEmail(user.Email)
	if err != nil {
		return event.User{}, err
	}
	user.Email = email
	user.SuspIP = false
	return user, nil
}

func unwrapEmail(raw string) (string, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 2 {
		return "", tooFewTokens(2, len(parts))
	}
	return strings.Trim(parts[1], ">"), nil
}
