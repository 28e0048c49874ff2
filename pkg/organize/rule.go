package organize

import (
	"regexp"
	"strings"
)

// NamingRule decides the destination subfolder for a filename. It is a closed
// set of two variants: PatternRule and TypeRule. Resolve is pure; a "no match"
// is not an error, it excludes the file from the plan.
type NamingRule interface {
	// Resolve returns the relative destination folder for filename.
	// ok is false when the rule does not apply to the file.
	Resolve(filename string) (folder string, ok bool)

	// Describe returns a short human-readable description of the rule.
	Describe() string
}

// PatternRule derives the destination folder from the first capture group of a
// regular expression, applied in search mode against the bare filename.
type PatternRule struct {
	expr string
	re   *regexp.Regexp
}

// NewPatternRule compiles expr into a PatternRule. An empty or uncompilable
// expression is a ConfigError, rejected here so planning never starts with a
// broken rule.
func NewPatternRule(expr string) (*PatternRule, error) {
	if expr == "" {
		return nil, &ConfigError{Reason: "pattern cannot be empty"}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &ConfigError{Reason: "pattern does not compile", Cause: err}
	}
	return &PatternRule{expr: expr, re: re}, nil
}

// Resolve applies the pattern in search mode. A match with at least one
// non-empty capture group yields the first group's text; anything else is a
// no-match.
func (r *PatternRule) Resolve(filename string) (string, bool) {
	m := r.re.FindStringSubmatch(filename)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

func (r *PatternRule) Describe() string {
	return "pattern " + r.expr
}

// TypeRule maps a filename's extension to a fixed category folder. It always
// resolves: unknown and missing extensions fall back to "Others".
type TypeRule struct{}

// NewTypeRule returns the extension-table rule.
func NewTypeRule() *TypeRule {
	return &TypeRule{}
}

// Resolve looks up the lower-cased substring after the last dot.
func (r *TypeRule) Resolve(filename string) (string, bool) {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 || dot == len(filename)-1 {
		return CategoryOthers, true
	}
	ext := strings.ToLower(filename[dot+1:])
	if category, ok := categories[ext]; ok {
		return category, true
	}
	return CategoryOthers, true
}

func (r *TypeRule) Describe() string {
	return "file type"
}
