package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/gopher-lua/parse"
)

type Kind string

type Check string

const (
	KindIP        Kind = "ip"
	KindEmail     Kind = "email"
	KindUsername  Kind = "username"
	KindUseragent Kind = "useragent"
	KindLua       Kind = "lua"
	KindPrint     Kind = "print"
)

const (
	CheckEquals    Check = "equals"
	CheckContains  Check = "contains"
	CheckRegex     Check = "regex"
	CheckLengthLte Check = "length-lte"
)

// CriterionKinds is the set of accepted kind/check pairs. Lua takes its source
// from the backtick-quoted code block, so it has no checks of its own.
var CriterionKinds = []KindChecks{
	{Kind: KindIP, Checks: []Check{CheckEquals}},
	{Kind: KindEmail, Checks: []Check{CheckContains, CheckRegex}},
	{Kind: KindUsername, Checks: []Check{CheckContains, CheckRegex}},
	{Kind: KindUseragent, Checks: []Check{CheckLengthLte}},
	{Kind: KindLua},
}

type KindChecks struct {
	Kind   Kind
	Checks []Check
}

var (
	ErrPrintCriterion       = errors.New("print criteria are handled by the print ban feature")
	ErrUnsupportedCriterion = errors.New("unsupported criterion")
	ErrInvalidRegex         = errors.New("invalid regex")
	ErrInvalidInteger       = errors.New("invalid integer")
	ErrInvalidLua           = errors.New("invalid lua")
)

// ValueError reports a criterion value that failed parse-time validation.
type ValueError struct {
	Kind  Kind
	Check Check
	Err   error
	Cause error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Check, e.Cause)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Spec is the wire form of a criterion: the three tokens it was built from.
type Spec struct {
	Kind  Kind   `json:"kind"`
	Check Check  `json:"check,omitempty"`
	Value string `json:"value"`
}

// Criterion is a closed set: only the types in this file implement it.
type Criterion interface {
	Spec() Spec
	criterion()
}

type IPMatch struct {
	IP string
}

type EmailContains struct {
	Substring string
}

type EmailRegex struct {
	Pattern *RegexMatcher
}

type UsernameContains struct {
	Substring string
}

type UsernameRegex struct {
	Pattern *RegexMatcher
}

type UseragentLengthLte struct {
	Max uint64
}

type Lua struct {
	Source string
}

func (IPMatch) criterion()            {}
func (EmailContains) criterion()      {}
func (EmailRegex) criterion()         {}
func (UsernameContains) criterion()   {}
func (UsernameRegex) criterion()      {}
func (UseragentLengthLte) criterion() {}
func (Lua) criterion()                {}

func (c IPMatch) Spec() Spec { return Spec{Kind: KindIP, Check: CheckEquals, Value: c.IP} }

func (c EmailContains) Spec() Spec {
	return Spec{Kind: KindEmail, Check: CheckContains, Value: c.Substring}
}

func (c EmailRegex) Spec() Spec {
	return Spec{Kind: KindEmail, Check: CheckRegex, Value: c.Pattern.String()}
}

func (c UsernameContains) Spec() Spec {
	return Spec{Kind: KindUsername, Check: CheckContains, Value: c.Substring}
}

func (c UsernameRegex) Spec() Spec {
	return Spec{Kind: KindUsername, Check: CheckRegex, Value: c.Pattern.String()}
}

func (c UseragentLengthLte) Spec() Spec {
	return Spec{Kind: KindUseragent, Check: CheckLengthLte, Value: strconv.FormatUint(c.Max, 10)}
}

func (c Lua) Spec() Spec { return Spec{Kind: KindLua, Value: c.Source} }

// NewCriterion validates and compiles one criterion. code is the backtick
// payload of the command and is only read for lua criteria.
func NewCriterion(kind Kind, check Check, value, code string) (Criterion, error) {
	switch kind {
	case KindPrint:
		return nil, ErrPrintCriterion
	case KindLua:
		if err := checkLua(code); err != nil {
			return nil, &ValueError{Kind: kind, Check: check, Err: ErrInvalidLua, Cause: err}
		}
		return Lua{Source: code}, nil
	}

	if !validCheck(kind, check) {
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedCriterion, kind, check)
	}

	switch kind {
	case KindIP:
		return IPMatch{IP: value}, nil
	case KindEmail, KindUsername:
		if check == CheckContains {
			if kind == KindEmail {
				return EmailContains{Substring: value}, nil
			}
			return UsernameContains{Substring: value}, nil
		}
		matcher, err := NewRegexMatcher(value)
		if err != nil {
			return nil, &ValueError{Kind: kind, Check: check, Err: ErrInvalidRegex, Cause: err}
		}
		if kind == KindEmail {
			return EmailRegex{Pattern: matcher}, nil
		}
		return UsernameRegex{Pattern: matcher}, nil
	case KindUseragent:
		limit, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, &ValueError{Kind: kind, Check: check, Err: ErrInvalidInteger, Cause: err}
		}
		return UseragentLengthLte{Max: limit}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCriterion, kind)
	}
}

func validCheck(kind Kind, check Check) bool {
	for _, kc := range CriterionKinds {
		if kc.Kind != kind {
			continue
		}
		for _, c := range kc.Checks {
			if c == check {
				return true
			}
		}
	}
	return false
}

func checkLua(source string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("empty source")
	}
	_, err := parse.Parse(strings.NewReader(source), "<criterion>")
	return err
}
