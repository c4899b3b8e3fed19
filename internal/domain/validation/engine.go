// Package validation checks free-text search input against the product- and
// jurisdiction-specific identifier grammars.  Validation never fails with an
// error value: every entry point returns a user-facing message, empty when the
// input is acceptable.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/turtacn/titleorder/internal/domain/catalog"
)

// Generic field messages.
const (
	MsgFieldRequired = "Field is required"
	MsgTooShort      = "Value is too short"
	MsgTooLong       = "Value is too long"
)

// Matter reference messages.
const (
	MsgMatterRequired = "Matter reference is required"
	MsgMatterTooShort = "At least 3 symbols"
	MsgMatterTooLong  = "Maximum character limit exceeded"

	matterMinLength = 3
	matterMaxLength = 100
)

// FieldRule constrains one form field of one product.
type FieldRule struct {
	MinLength int
	MaxLength int
	Check     func(v string) string
}

// RuleKey addresses a FieldRule.
type RuleKey struct {
	Product catalog.ProductCode
	Field   string
}

// Engine evaluates field rules.
type Engine struct {
	rules map[RuleKey]FieldRule
}

// NewEngine builds an Engine with one rule per field of every product in c.
func NewEngine(c catalog.Catalog) *Engine {
	e := &Engine{rules: make(map[RuleKey]FieldRule)}
	for _, p := range c.All() {
		for _, f := range p.Fields {
			if rule, ok := ruleFor(p, f.Label); ok {
				e.rules[RuleKey{Product: p.Code, Field: f.Label}] = rule
			}
		}
	}
	return e
}

var defaultEngine = NewEngine(catalog.Default())

// Default returns the Engine built from the built-in catalog.
func Default() *Engine { return defaultEngine }

// Rule returns the rule registered for (product, field).
func (e *Engine) Rule(product catalog.ProductCode, field string) (FieldRule, bool) {
	r, ok := e.rules[RuleKey{Product: product, Field: field}]
	return r, ok
}

// Keys lists every registered rule key.
func (e *Engine) Keys() []RuleKey {
	out := make([]RuleKey, 0, len(e.rules))
	for k := range e.rules {
		out = append(out, k)
	}
	return out
}

// Validate checks raw for (product, field).  Without a rule the value is
// valid unless it is required and empty.  With a rule: an empty optional
// value is valid, length bounds are enforced next, and the rule's own check
// runs last.
func (e *Engine) Validate(product catalog.ProductCode, field, raw string, required bool) string {
	v := strings.TrimSpace(raw)
	rule, ok := e.Rule(product, field)
	if v == "" {
		if required {
			return MsgFieldRequired
		}
		return ""
	}
	if !ok {
		return ""
	}
	n := utf8.RuneCountInString(v)
	if n < rule.MinLength {
		return MsgTooShort
	}
	if rule.MaxLength > 0 && n > rule.MaxLength {
		return MsgTooLong
	}
	if rule.Check != nil {
		return rule.Check(v)
	}
	return ""
}

// ValidateCriteria validates every field of product against criteria, keyed
// by field label, and returns the failures.  An empty map means the form may
// be submitted.
func (e *Engine) ValidateCriteria(product catalog.SearchProduct, criteria map[string]string) map[string]string {
	failures := make(map[string]string)
	for _, f := range product.Fields {
		if msg := e.Validate(product.Code, f.Label, criteria[f.Label], f.Required); msg != "" {
			failures[f.Label] = msg
		}
	}
	return failures
}

// Validate runs the default Engine.
func Validate(product catalog.ProductCode, field, raw string, required bool) string {
	return defaultEngine.Validate(product, field, raw, required)
}

// ValidateCriteria runs the default Engine.
func ValidateCriteria(product catalog.SearchProduct, criteria map[string]string) map[string]string {
	return defaultEngine.ValidateCriteria(product, criteria)
}

// ValidateMatter checks a matter reference.  It applies to every search and
// order regardless of product.
func ValidateMatter(ref string) string {
	v := strings.TrimSpace(ref)
	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		return MsgMatterRequired
	case n < matterMinLength:
		return MsgMatterTooShort
	case n > matterMaxLength:
		return MsgMatterTooLong
	}
	return ""
}
