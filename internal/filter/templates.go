package filter

import (
	"sort"
	"strings"
)

// Template is a predefined rule set for a project flavour.
type Template struct {
	Name string
	// AllowedTypes restricts files to these extensions (".cs") or exact names ("Gemfile").
	// An empty list keeps every file.
	AllowedTypes         []string
	ForbiddenDirectories []string
	ExcludedFiles        []string
}

var templates = map[string]Template{
	"cs": {
		Name:                 "cs",
		AllowedTypes:         []string{".cs", ".xaml", ".csproj", ".props", ".targets"},
		ForbiddenDirectories: []string{"bin", "obj", "packages", ".vs"},
		ExcludedFiles:        []string{"*.user", "*.suo", "AssemblyInfo.cs", "*.g.cs", "*.i.cs", "TemporaryGeneratedFile_*.cs"},
	},
	"wpf": {
		Name:                 "wpf",
		AllowedTypes:         []string{".cs", ".xaml", ".csproj", ".props", ".targets", ".config"},
		ForbiddenDirectories: []string{"bin", "obj", ".vs"},
		ExcludedFiles:        []string{"*.user", "*.suo"},
	},
	"rb": {
		Name:                 "rb",
		AllowedTypes:         []string{".rb", ".gemfile", "Gemfile", "Rakefile", ".rake"},
		ForbiddenDirectories: []string{".bundle", "tmp", "log"},
		ExcludedFiles:        []string{"*.gem"},
	},
	"rails": {
		Name: "rails",
		AllowedTypes: []string{
			".rb", ".rake", ".erb", ".haml", ".slim", ".yml", ".yaml", ".js", ".ts", ".css", ".scss", ".json", "Gemfile",
		},
		ForbiddenDirectories: []string{"tmp", "log", "public/assets", ".bundle"},
		ExcludedFiles:        []string{"*.sqlite3", "*.log"},
	},
}

// LookupTemplate returns the template registered under name.
func LookupTemplate(name string) (Template, bool) {
	template, found := templates[strings.ToLower(strings.TrimSpace(name))]
	return template, found
}

// TemplateNames lists registered templates in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules expands the template into ordered rules: restrict files to the allowed
// types, then exclude forbidden directories and file patterns.
func (template Template) Rules() ([]Rule, error) {
	var rules []Rule
	if len(template.AllowedTypes) > 0 {
		rules = append(rules, MustRule("*", PatternGlob, Exclude, ScopeName, TargetFile))
		for _, allowedType := range template.AllowedTypes {
			if strings.HasPrefix(allowedType, ".") {
				allowRule, ruleError := NewRule("*"+allowedType, PatternGlob, Include, ScopeName, TargetFile)
				if ruleError != nil {
					return nil, ruleError
				}
				rules = append(rules, allowRule)
				continue
			}
			rules = append(rules, MustRule(allowedType, PatternExact, Include, ScopeName, TargetFile))
		}
	}
	for _, directoryName := range template.ForbiddenDirectories {
		directoryRule, ruleError := ParseRule(directoryName + directorySuffix)
		if ruleError != nil {
			return nil, ruleError
		}
		rules = append(rules, directoryRule)
	}
	fileRules, ruleError := ParseRules(template.ExcludedFiles)
	if ruleError != nil {
		return nil, ruleError
	}
	for _, fileRule := range fileRules {
		fileRule.Target = TargetFile
		rules = append(rules, fileRule)
	}
	return rules, nil
}
