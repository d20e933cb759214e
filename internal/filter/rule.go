// Package filter decides which filesystem entries take part in a scan.
//
// A PathFilter holds an ordered list of rules. Every rule that matches a
// candidate path is a vote; the last matching rule wins and a path that no rule
// matches is included. Rules are parsed and validated before any traversal
// starts, so a malformed pattern never surfaces mid-scan.
package filter

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tyemirov/pj/internal/types"
)

// Decision is the verdict for a path.
type Decision int

const (
	// Include keeps the entry in the scan.
	Include Decision = iota
	// Exclude removes the entry and, for directories, its whole subtree.
	Exclude
)

// String returns the lower-case name of the decision.
func (decision Decision) String() string {
	if decision == Exclude {
		return "exclude"
	}
	return "include"
}

// PatternKind is the closed set of ways a rule pattern is compared.
type PatternKind int

const (
	PatternExact PatternKind = iota
	PatternPrefix
	PatternGlob
)

// Scope selects what part of the path a rule is tested against.
type Scope int

const (
	// ScopeName tests the final path component only.
	ScopeName Scope = iota
	// ScopePath tests the full slash separated path relative to the root.
	ScopePath
)

// Target restricts a rule to a kind of entry.
type Target int

const (
	TargetAny Target = iota
	TargetDirectory
	TargetFile
)

const (
	negationPrefix      = "!"
	directorySuffix     = "/"
	recursiveSuffix     = "/**"
	globMetacharacters  = "*?[\\"
	errorEmptyPattern   = "empty filter pattern"
	errorBadPatternText = "invalid filter pattern %q: %w"
)

// ErrEmptyPattern is returned for blank rule text.
var ErrEmptyPattern = errors.New(errorEmptyPattern)

// Rule is one ordered include or exclude instruction.
type Rule struct {
	Pattern  string
	Kind     PatternKind
	Polarity Decision
	Scope    Scope
	Target   Target
}

// NewRule validates pattern and returns a ready to match rule.
func NewRule(pattern string, kind PatternKind, polarity Decision, scope Scope, target Target) (Rule, error) {
	if pattern == "" {
		return Rule{}, ErrEmptyPattern
	}
	rule := Rule{Pattern: pattern, Kind: kind, Polarity: polarity, Scope: scope, Target: target}
	if kind != PatternGlob {
		return rule, nil
	}
	if scope == ScopePath {
		if !doublestar.ValidatePattern(pattern) {
			return Rule{}, fmt.Errorf(errorBadPatternText, pattern, doublestar.ErrBadPattern)
		}
		return rule, nil
	}
	if _, matchError := path.Match(pattern, ""); matchError != nil {
		return Rule{}, fmt.Errorf(errorBadPatternText, pattern, matchError)
	}
	return rule, nil
}

// MustRule is NewRule for patterns known to be valid at compile time.
func MustRule(pattern string, kind PatternKind, polarity Decision, scope Scope, target Target) Rule {
	rule, ruleError := NewRule(pattern, kind, polarity, scope, target)
	if ruleError != nil {
		panic(ruleError)
	}
	return rule
}

// ParseRule converts gitignore-like text into a Rule.
//
//	!pattern   include instead of exclude
//	pattern/   directories only
//	a/b, /a    matched against the full relative path ("/" anchors at the root)
//	dir/**     everything below dir
//	*.go       glob; text without *?[ is an exact match
func ParseRule(text string) (Rule, error) {
	trimmed := strings.TrimSpace(text)
	polarity := Exclude
	if strings.HasPrefix(trimmed, negationPrefix) {
		polarity = Include
		trimmed = strings.TrimPrefix(trimmed, negationPrefix)
	}

	target := TargetAny
	if strings.HasSuffix(trimmed, directorySuffix) {
		target = TargetDirectory
		trimmed = strings.TrimRight(trimmed, directorySuffix)
	}

	scope := ScopeName
	if strings.Contains(trimmed, directorySuffix) {
		scope = ScopePath
		trimmed = strings.TrimLeft(trimmed, directorySuffix)
	}
	if trimmed == "" {
		return Rule{}, ErrEmptyPattern
	}

	if scope == ScopePath && strings.HasSuffix(trimmed, recursiveSuffix) {
		prefix := strings.TrimSuffix(trimmed, recursiveSuffix)
		if prefix != "" && !strings.ContainsAny(prefix, globMetacharacters) {
			return NewRule(prefix+directorySuffix, PatternPrefix, polarity, ScopePath, TargetAny)
		}
	}

	kind := PatternExact
	if strings.ContainsAny(trimmed, globMetacharacters) {
		kind = PatternGlob
	}
	return NewRule(trimmed, kind, polarity, scope, target)
}

// ParseRules parses every non-blank line, stopping at the first invalid one.
func ParseRules(texts []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		rule, parseError := ParseRule(text)
		if parseError != nil {
			return nil, parseError
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Matches reports whether the rule applies to the entry at relativePath.
func (rule Rule) Matches(relativePath string, kind types.EntryKind) bool {
	switch rule.Target {
	case TargetDirectory:
		if kind != types.EntryKindDirectory {
			return false
		}
	case TargetFile:
		if kind == types.EntryKindDirectory {
			return false
		}
	}

	subject := path.Base(relativePath)
	if rule.Scope == ScopePath {
		subject = relativePath
	}

	switch rule.Kind {
	case PatternExact:
		return subject == rule.Pattern
	case PatternPrefix:
		return strings.HasPrefix(subject, rule.Pattern)
	default:
		if rule.Scope == ScopePath {
			isMatched, matchError := doublestar.Match(rule.Pattern, subject)
			return matchError == nil && isMatched
		}
		isMatched, matchError := path.Match(rule.Pattern, subject)
		return matchError == nil && isMatched
	}
}

// String renders the rule back into its text form.
func (rule Rule) String() string {
	var builder strings.Builder
	if rule.Polarity == Include {
		builder.WriteString(negationPrefix)
	}
	builder.WriteString(rule.Pattern)
	if rule.Target == TargetDirectory {
		builder.WriteString(directorySuffix)
	}
	return builder.String()
}
