// Package config loads ignore files and application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tyemirov/pj/internal/filter"
	"github.com/tyemirov/pj/internal/utils"
)

const (
	// binarySectionHeader starts the section listing files whose content is omitted.
	binarySectionHeader = "[binary]"
	// ignoreSectionHeader starts the section listing ignore patterns.
	ignoreSectionHeader = "[ignore]"

	commentPrefix = "#"
	escapedPrefix = `\`

	errorLineFormat = "%s:%d: %w"
	errorLoadFormat = "loading %s from %s: %w"
)

// IgnoreFile holds the rules read from one ignore file.
type IgnoreFile struct {
	// Rules exclude (or, negated, re-include) entries from the scan.
	Rules []filter.Rule
	// BinaryRules mark files that stay in the structure but whose content is omitted.
	BinaryRules []filter.Rule
}

// LoadIgnoreFileRules parses a gitignore-style file. Blank lines and comments are
// skipped and a missing file yields no rules. Patterns following a [binary]
// header are collected as BinaryRules until an [ignore] header switches back.
//
// #nosec G304
func LoadIgnoreFileRules(ignoreFilePath string) (IgnoreFile, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return IgnoreFile{}, nil
		}
		return IgnoreFile{}, openFileError
	}
	defer fileHandle.Close()

	var ignoreFile IgnoreFile
	currentSectionHeader := ignoreSectionHeader
	lineNumber := 0
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lineNumber++
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.EqualFold(trimmedLine, binarySectionHeader) {
			currentSectionHeader = binarySectionHeader
			continue
		}
		if strings.EqualFold(trimmedLine, ignoreSectionHeader) {
			currentSectionHeader = ignoreSectionHeader
			continue
		}
		// "\#name" names a file literally starting with #.
		if strings.HasPrefix(trimmedLine, escapedPrefix+commentPrefix) {
			trimmedLine = strings.TrimPrefix(trimmedLine, escapedPrefix)
		}

		rule, parseError := filter.ParseRule(trimmedLine)
		if parseError != nil {
			return IgnoreFile{}, fmt.Errorf(errorLineFormat, ignoreFilePath, lineNumber, parseError)
		}
		if currentSectionHeader == binarySectionHeader {
			ignoreFile.BinaryRules = append(ignoreFile.BinaryRules, rule)
			continue
		}
		ignoreFile.Rules = append(ignoreFile.Rules, rule)
	}
	if scanError := scanner.Err(); scanError != nil {
		return IgnoreFile{}, scanError
	}
	return ignoreFile, nil
}

// ProjectRuleOptions selects which ignore files under the scan root are read.
type ProjectRuleOptions struct {
	UseGitignore  bool
	UseIgnoreFile bool
}

// LoadProjectRules reads the ignore files at the root of absoluteDirectoryPath.
// .gitignore rules come first so .ignore rules can override them.
func LoadProjectRules(absoluteDirectoryPath string, options ProjectRuleOptions) (IgnoreFile, error) {
	var combined IgnoreFile
	var sources []string
	if options.UseGitignore {
		sources = append(sources, utils.GitIgnoreFileName)
	}
	if options.UseIgnoreFile {
		sources = append(sources, utils.IgnoreFileName)
	}
	for _, fileName := range sources {
		loaded, loadError := LoadIgnoreFileRules(filepath.Join(absoluteDirectoryPath, fileName))
		if loadError != nil {
			return IgnoreFile{}, fmt.Errorf(errorLoadFormat, fileName, absoluteDirectoryPath, loadError)
		}
		combined.Rules = append(combined.Rules, loaded.Rules...)
		combined.BinaryRules = append(combined.BinaryRules, loaded.BinaryRules...)
	}
	return combined, nil
}
