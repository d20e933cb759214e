package filter

import "github.com/tyemirov/pj/internal/utils"

// HiddenPattern excludes dotfiles and dot-directories.
const HiddenPattern = ".*"

// VersionControlDirectories are excluded out of the box.
var VersionControlDirectories = []string{utils.GitDirectoryName, ".hg", ".svn"}

// DependencyDirectories are dependency caches and build outputs excluded out of the box.
var DependencyDirectories = []string{
	"node_modules",
	"bin",
	"obj",
	"tmp",
	"log",
	"packages",
	".bundle",
	".vs",
	".idea",
}

// ExcludedFilePatterns are asset and artifact globs excluded out of the box.
var ExcludedFilePatterns = []string{
	"*.tmp",
	"*.cache",
	"*.suo",
	"*.user",
	"*.xlsx",
	"*.xls",
	"*.pdf",
	"*.jpg",
	"*.jpeg",
	"*.png",
	"*.gif",
	"*.ico",
	"*.dll",
	"*.exe",
	"*.so",
	"*.dylib",
	"*.bin",
	".DS_Store",
	"*.gem",
	"*.log",
}

// DefaultOptions tunes the built-in rule set.
type DefaultOptions struct {
	IncludeHidden bool
}

// DefaultRules returns the built-in exclusions in evaluation order.
func DefaultRules(options DefaultOptions) []Rule {
	var rules []Rule
	for _, directoryName := range VersionControlDirectories {
		rules = append(rules, MustRule(directoryName, PatternExact, Exclude, ScopeName, TargetDirectory))
	}
	for _, directoryName := range DependencyDirectories {
		rules = append(rules, MustRule(directoryName, PatternExact, Exclude, ScopeName, TargetDirectory))
	}
	for _, filePattern := range ExcludedFilePatterns {
		kind := PatternExact
		if filePattern[0] == '*' {
			kind = PatternGlob
		}
		rules = append(rules, MustRule(filePattern, kind, Exclude, ScopeName, TargetFile))
	}
	if !options.IncludeHidden {
		rules = append(rules, HiddenRule())
	}
	return rules
}

// HiddenRule excludes every entry whose name starts with a dot.
func HiddenRule() Rule {
	return MustRule(HiddenPattern, PatternGlob, Exclude, ScopeName, TargetAny)
}
