package filter_test

import (
	"errors"
	"path"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/pj/internal/filter"
	"github.com/tyemirov/pj/internal/types"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantPattern  string
		wantKind     filter.PatternKind
		wantPolarity filter.Decision
		wantScope    filter.Scope
		wantTarget   filter.Target
	}{
		{"exact name", "Makefile", "Makefile", filter.PatternExact, filter.Exclude, filter.ScopeName, filter.TargetAny},
		{"glob name", "*.go", "*.go", filter.PatternGlob, filter.Exclude, filter.ScopeName, filter.TargetAny},
		{"directory only", "build/", "build", filter.PatternExact, filter.Exclude, filter.ScopeName, filter.TargetDirectory},
		{"negated", "!keep.txt", "keep.txt", filter.PatternExact, filter.Include, filter.ScopeName, filter.TargetAny},
		{"anchored", "/root.txt", "root.txt", filter.PatternExact, filter.Exclude, filter.ScopePath, filter.TargetAny},
		{"nested path", "src/generated", "src/generated", filter.PatternExact, filter.Exclude, filter.ScopePath, filter.TargetAny},
		{"nested glob", "docs/**/*.md", "docs/**/*.md", filter.PatternGlob, filter.Exclude, filter.ScopePath, filter.TargetAny},
		{"recursive prefix", "vendor/cache/**", "vendor/cache/", filter.PatternPrefix, filter.Exclude, filter.ScopePath, filter.TargetAny},
		{"nested directory", "public/assets/", "public/assets", filter.PatternExact, filter.Exclude, filter.ScopePath, filter.TargetDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := filter.ParseRule(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPattern, rule.Pattern)
			assert.Equal(t, tt.wantKind, rule.Kind)
			assert.Equal(t, tt.wantPolarity, rule.Polarity)
			assert.Equal(t, tt.wantScope, rule.Scope)
			assert.Equal(t, tt.wantTarget, rule.Target)
		})
	}
}

func TestParseRuleRejectsInvalidPatterns(t *testing.T) {
	_, err := filter.ParseRule("[a-")
	require.Error(t, err)
	assert.True(t, errors.Is(err, path.ErrBadPattern))

	_, err = filter.ParseRule("src/[z-")
	assert.ErrorIs(t, err, doublestar.ErrBadPattern)

	_, err = filter.ParseRule("!")
	assert.ErrorIs(t, err, filter.ErrEmptyPattern)

	_, err = filter.ParseRules([]string{"ok.txt", "", "src/[z-"})
	assert.Error(t, err)
}

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		path  string
		kind  types.EntryKind
		match bool
	}{
		{"name glob at depth", "*.log", "a/b/c.log", types.EntryKindFile, true},
		{"name glob miss", "*.log", "a/b/c.txt", types.EntryKindFile, false},
		{"directory rule skips files", "build/", "build", types.EntryKindFile, false},
		{"directory rule hits directory", "build/", "x/build", types.EntryKindDirectory, true},
		{"path exact", "src/generated", "src/generated", types.EntryKindDirectory, true},
		{"path exact elsewhere", "src/generated", "lib/src/generated", types.EntryKindDirectory, false},
		{"double star", "docs/**/*.md", "docs/a/b/readme.md", types.EntryKindFile, true},
		{"double star direct child", "docs/**/*.md", "docs/readme.md", types.EntryKindFile, true},
		{"double star other root", "docs/**/*.md", "src/readme.md", types.EntryKindFile, false},
		{"prefix", "vendor/cache/**", "vendor/cache/x/y", types.EntryKindFile, true},
		{"prefix excludes not the directory", "vendor/cache/**", "vendor/cache", types.EntryKindDirectory, false},
		{"hidden", ".*", "a/.env", types.EntryKindFile, true},
		{"path single character", "src/?.go", "src/a.go", types.EntryKindFile, true},
		{"path single character miss", "src/?.go", "src/ab.go", types.EntryKindFile, false},
		{"path plus sign", "a+b/*.go", "a+b/x.go", types.EntryKindFile, true},
		{"path parenthesis", "x(y/*.go", "x(y/z.go", types.EntryKindFile, true},
		{"path cpp directory", "lib/c++/*.h", "lib/c++/vector.h", types.EntryKindFile, true},
		{"path class", "src/[ab].go", "src/b.go", types.EntryKindFile, true},
		{"path star stays in segment", "src/*.go", "src/a/b.go", types.EntryKindFile, false},
		{"leading double star", "**/gen/*.go", "a/b/gen/x.go", types.EntryKindFile, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := filter.ParseRule(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.match, rule.Matches(tt.path, tt.kind))
		})
	}
}

func TestDecideLastMatchWins(t *testing.T) {
	rules, err := filter.ParseRules([]string{"*.txt", "!keep.txt", "keep.txt"})
	require.NoError(t, err)

	pathFilter := filter.New(rules...)
	assert.Equal(t, filter.Exclude, pathFilter.Decide("notes.txt", types.EntryKindFile))
	assert.Equal(t, filter.Exclude, pathFilter.Decide("keep.txt", types.EntryKindFile))
	assert.Equal(t, filter.Include, pathFilter.Decide("main.go", types.EntryKindFile))

	reincluded, err := filter.ParseRules([]string{"*.txt", "!keep.txt"})
	require.NoError(t, err)
	assert.Equal(t, filter.Include, filter.New(reincluded...).Decide("dir/keep.txt", types.EntryKindFile))
}

func TestBuildDefaults(t *testing.T) {
	pathFilter, err := filter.Build(filter.Options{})
	require.NoError(t, err)

	excluded := []struct {
		path string
		kind types.EntryKind
	}{
		{".git", types.EntryKindDirectory},
		{"web/node_modules", types.EntryKindDirectory},
		{"bin", types.EntryKindDirectory},
		{".env", types.EntryKindFile},
		{"assets/logo.png", types.EntryKindFile},
		{"app.log", types.EntryKindFile},
	}
	for _, candidate := range excluded {
		assert.Equal(t, filter.Exclude, pathFilter.Decide(candidate.path, candidate.kind), candidate.path)
	}
	assert.Equal(t, filter.Include, pathFilter.Decide("src/main.go", types.EntryKindFile))
	assert.Equal(t, filter.Include, pathFilter.Decide("bin", types.EntryKindFile), "directory defaults do not touch files")
}

func TestBuildUserRulesOverrideDefaults(t *testing.T) {
	userRules, err := filter.ParseRules([]string{"!node_modules/", "!.github/", "*.md"})
	require.NoError(t, err)

	pathFilter, err := filter.Build(filter.Options{Rules: userRules})
	require.NoError(t, err)

	assert.Equal(t, filter.Include, pathFilter.Decide("node_modules", types.EntryKindDirectory))
	assert.Equal(t, filter.Include, pathFilter.Decide(".github", types.EntryKindDirectory))
	assert.Equal(t, filter.Exclude, pathFilter.Decide("README.md", types.EntryKindFile))
}

func TestBuildIncludeHidden(t *testing.T) {
	pathFilter, err := filter.Build(filter.Options{IncludeHidden: true})
	require.NoError(t, err)

	assert.Equal(t, filter.Include, pathFilter.Decide(".env", types.EntryKindFile))
	assert.Equal(t, filter.Exclude, pathFilter.Decide(".git", types.EntryKindDirectory), "version control stays excluded")
}

func TestBuildTemplate(t *testing.T) {
	pathFilter, err := filter.Build(filter.Options{Template: "rb"})
	require.NoError(t, err)

	assert.Equal(t, filter.Include, pathFilter.Decide("lib/app.rb", types.EntryKindFile))
	assert.Equal(t, filter.Include, pathFilter.Decide("Gemfile", types.EntryKindFile))
	assert.Equal(t, filter.Include, pathFilter.Decide("tasks/build.rake", types.EntryKindFile))
	assert.Equal(t, filter.Exclude, pathFilter.Decide("README.md", types.EntryKindFile))
	assert.Equal(t, filter.Exclude, pathFilter.Decide("pkg/app.gem", types.EntryKindFile))
	assert.Equal(t, filter.Exclude, pathFilter.Decide(".bundle", types.EntryKindDirectory))
	assert.Equal(t, filter.Include, pathFilter.Decide("lib", types.EntryKindDirectory))
	assert.Equal(t, filter.Exclude, pathFilter.Decide(".hidden.rb", types.EntryKindFile), "templates do not re-include dotfiles")
}

func TestBuildRailsNestedForbiddenDirectory(t *testing.T) {
	pathFilter, err := filter.Build(filter.Options{Template: "rails"})
	require.NoError(t, err)

	assert.Equal(t, filter.Exclude, pathFilter.Decide("public/assets", types.EntryKindDirectory))
	assert.Equal(t, filter.Include, pathFilter.Decide("public", types.EntryKindDirectory))
	assert.Equal(t, filter.Include, pathFilter.Decide("config/routes.rb", types.EntryKindFile))
}

func TestBuildUnknownTemplate(t *testing.T) {
	_, err := filter.Build(filter.Options{Template: "cobol"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cobol")
}

func TestTemplateNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"cs", "rails", "rb", "wpf"}, filter.TemplateNames())
}

func TestNilFilterIncludesEverything(t *testing.T) {
	var pathFilter *filter.PathFilter
	assert.Equal(t, filter.Include, pathFilter.Decide("anything", types.EntryKindFile))
	assert.Nil(t, pathFilter.Rules())
}

func TestRuleString(t *testing.T) {
	for _, text := range []string{"*.go", "!keep.txt", "build/", "src/generated"} {
		rule, err := filter.ParseRule(text)
		require.NoError(t, err)
		assert.Equal(t, text, rule.String())
	}
}
