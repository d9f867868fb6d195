package command

import (
	"errors"
	"fmt"

	"github.com/signupguard/signupguard/internal/event"
)

type ErrorKind string

const (
	KindGeneric       ErrorKind = "generic"
	KindTooFewTokens  ErrorKind = "too_few_tokens"
	KindBadInteger    ErrorKind = "bad_integer"
	KindBadRegex      ErrorKind = "bad_regex"
	KindBadLua        ErrorKind = "bad_lua"
	KindBadJSON       ErrorKind = "bad_json"
	KindPrintRedirect ErrorKind = "print_redirect"
)

const (
	MsgGeneric       = "Could not parse user command"
	MsgBadInteger    = "Can't parse int"
	MsgBadRegex      = "Invalid regex"
	MsgBadLua        = "Invalid lua"
	MsgBadJSON       = "Can't (de)serialize"
	MsgPrintRedirect = "Use lichess print ban instead"
)

const (
	ReplyExternalFailed    = "Failed executing command."
	ReplyEngineUnavailable = "Rule engine is not accepting events."
	ReplyForwardFailed     = "Could not forward command to the rule engine."
)

// ParseError is the only error kind a malformed command produces. Message is
// what the operator sees.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(kind ErrorKind, message string, cause error) *ParseError {
	return &ParseError{Kind: kind, Message: message, Err: cause}
}

func genericError(cause error) *ParseError {
	return parseError(KindGeneric, MsgGeneric, cause)
}

// tooFewTokens keeps the generic operator message; the kind tells them apart.
func tooFewTokens(want, got int) *ParseError {
	return parseError(KindTooFewTokens, MsgGeneric, fmt.Errorf("need %d tokens, got %d", want, got))
}

// ReplyFor converts a Handle error into the text written back to the channel.
func ReplyFor(err error) string {
	if err == nil {
		return ""
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Message
	}
	if errors.Is(err, event.ErrClosed) {
		return ReplyEngineUnavailable
	}
	return ReplyForwardFailed
}

// KindOf reports the ParseError kind of err, or "" for other errors.
func KindOf(err error) ErrorKind {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
