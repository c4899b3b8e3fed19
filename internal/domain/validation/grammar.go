package validation

import "strings"

// GrammarRule is one surface form of an identifier family.  Matches decides
// structurally (delimiter count and position) whether the rule applies; Check
// then applies the character-class constraints of that form and returns ""
// or a message.
type GrammarRule struct {
	Name    string
	Matches func(v string) bool
	Check   func(v string) string
}

// Grammar is an ordered list of rules.  The first rule whose Matches returns
// true decides; when none matches, Invalid is returned.
type Grammar struct {
	Name    string
	Rules   []GrammarRule
	Invalid string
}

// Check evaluates v against the grammar.  v is trimmed and upper-cased first.
func (g Grammar) Check(v string) string {
	r, v, ok := g.match(v)
	if !ok {
		return g.Invalid
	}
	return r.Check(v)
}

// Match returns the rule that decides v, after the same trimming and
// upper-casing Check applies.
func (g Grammar) Match(v string) (GrammarRule, bool) {
	r, _, ok := g.match(v)
	return r, ok
}

func (g Grammar) match(v string) (GrammarRule, string, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	for _, r := range g.Rules {
		if r.Matches(v) {
			return r, v, true
		}
	}
	return GrammarRule{}, v, false
}

// Rule returns the named rule.
func (g Grammar) Rule(name string) (GrammarRule, bool) {
	for _, r := range g.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return GrammarRule{}, false
}

// ─── character classes ──────────────────────────────────────────────────────

func isDigit(r byte) bool  { return r >= '0' && r <= '9' }
func isLetter(r byte) bool { return r >= 'A' && r <= 'Z' }

// digits reports whether s is 1..max ASCII digits.
func digits(s string, max int) bool {
	if s == "" || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// nonZeroDigits is digits with a leading digit other than 0.
func nonZeroDigits(s string, max int) bool {
	return digits(s, max) && s[0] != '0'
}

// letters reports whether s is 1..max upper-case ASCII letters.
func letters(s string, max int) bool {
	if s == "" || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

// span splits s at the first byte not accepted by pred.
func span(s string, pred func(byte) bool) (head, tail string) {
	i := 0
	for i < len(s) && pred(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// lotToken accepts digits optionally preceded by letters (1, 12, A1, AB12).
func lotToken(s string, max int) bool {
	if s == "" || len(s) > max {
		return false
	}
	_, rest := span(s, isLetter)
	return digits(rest, max)
}

func slashes(v string) int { return strings.Count(v, "/") }

func startsWithDigit(v string) bool  { return v != "" && isDigit(v[0]) }
func startsWithLetter(v string) bool { return v != "" && isLetter(v[0]) }
