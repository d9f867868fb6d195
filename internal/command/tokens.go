package command

import "strings"

const (
	codeQuote       = "`"
	codePlaceholder = "$ $"
)

// commandLine is a tokenized command with its backtick payload lifted out.
// The placeholder spans two tokens so a lua criterion still has check and
// value positions before "then".
type commandLine struct {
	args []string
	code string
}

func parseCommandLine(text string) commandLine {
	pieces := strings.Split(text, codeQuote)
	code := ""
	if len(pieces) > 2 {
		code = pieces[1]
		pieces[0] = strings.TrimSpace(pieces[0])
		pieces[1] = codePlaceholder
		pieces[2] = strings.TrimSpace(pieces[2])
	}

	fields := strings.Fields(strings.Join(pieces, " "))
	if len(fields) > 0 {
		fields = fields[1:]
	}
	return commandLine{args: fields, code: code}
}

func (c commandLine) arg(i int) (string, error) {
	if i < 0 || i >= len(c.args) {
		return "", tooFewTokens(i+1, len(c.args))
	}
	return c.args[i], nil
}

func (c commandLine) optional(i int) (string, bool) {
	if i < 0 || i >= len(c.args) {
		return "", false
	}
	return c.args[i], true
}
