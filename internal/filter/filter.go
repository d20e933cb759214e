package filter

import (
	"fmt"

	"github.com/tyemirov/pj/internal/types"
)

const errorUnknownTemplateFormat = "unknown template %q (available: %v)"

// PathFilter decides whether entries take part in a scan.
type PathFilter struct {
	rules []Rule
}

// New returns a filter evaluating rules in order, last match wins.
func New(rules ...Rule) *PathFilter {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &PathFilter{rules: copied}
}

// Decide returns the verdict of the last rule matching relativePath, or Include
// when nothing matches.
func (filter *PathFilter) Decide(relativePath string, kind types.EntryKind) Decision {
	if filter == nil {
		return Include
	}
	for ruleIndex := len(filter.rules) - 1; ruleIndex >= 0; ruleIndex-- {
		if filter.rules[ruleIndex].Matches(relativePath, kind) {
			return filter.rules[ruleIndex].Polarity
		}
	}
	return Include
}

// Rules returns a copy of the ordered rule list.
func (filter *PathFilter) Rules() []Rule {
	if filter == nil {
		return nil
	}
	copied := make([]Rule, len(filter.rules))
	copy(copied, filter.rules)
	return copied
}

// Options selects the rule sources combined by Build.
type Options struct {
	// IncludeHidden drops the built-in dotfile exclusion.
	IncludeHidden bool
	// DisableDefaults drops every built-in rule.
	DisableDefaults bool
	// Template names a predefined rule set, see TemplateNames.
	Template string
	// Rules are appended last so they override defaults and the template.
	Rules []Rule
}

// Build composes defaults, template rules and caller rules into a PathFilter.
// The dotfile exclusion is placed after the template so template type lists
// cannot re-include hidden files; caller rules still override it.
func Build(options Options) (*PathFilter, error) {
	var rules []Rule
	if !options.DisableDefaults {
		rules = append(rules, DefaultRules(DefaultOptions{IncludeHidden: true})...)
	}
	if options.Template != "" {
		template, found := LookupTemplate(options.Template)
		if !found {
			return nil, fmt.Errorf(errorUnknownTemplateFormat, options.Template, TemplateNames())
		}
		templateRules, templateError := template.Rules()
		if templateError != nil {
			return nil, templateError
		}
		rules = append(rules, templateRules...)
	}
	if !options.DisableDefaults && !options.IncludeHidden {
		rules = append(rules, HiddenRule())
	}
	rules = append(rules, options.Rules...)
	return New(rules...), nil
}
