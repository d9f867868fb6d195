package rules

import "regexp"

// RegexMatcher is a pattern that compiled at parse time. Only the source text
// is forwarded to the engine.
type RegexMatcher struct {
	re *regexp.Regexp
}

func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{re: re}, nil
}

// Match reports whether input matches and returns the leftmost matched text.
func (m *RegexMatcher) Match(input string) (bool, string) {
	if m == nil {
		return false, ""
	}
	loc := m.re.FindStringIndex(input)
	if loc == nil {
		return false, ""
	}
	return true, input[loc[0]:loc[1]]
}

func (m *RegexMatcher) String() string {
	if m == nil {
		return ""
	}
	return m.re.String()
}
