package rules

import (
	"errors"
	"fmt"
	"strings"
)

const actionSeparator = "+"

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrDuplicateAction = errors.New("duplicate action")
	ErrNoActions       = errors.New("no actions")
)

func ParseAction(token string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == token {
			return a, true
		}
	}
	return "", false
}

// ParseActions splits a "+"-joined action field. Either every token maps to a
// distinct action or the whole field is rejected.
func ParseActions(field string) ([]Action, error) {
	if field == "" {
		return nil, ErrNoActions
	}

	tokens := strings.Split(field, actionSeparator)
	out := make([]Action, 0, len(tokens))
	seen := make(map[Action]struct{}, len(tokens))
	for _, token := range tokens {
		action, ok := ParseAction(token)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownAction, token)
		}
		if _, dup := seen[action]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateAction, token)
		}
		seen[action] = struct{}{}
		out = append(out, action)
	}
	return out, nil
}
