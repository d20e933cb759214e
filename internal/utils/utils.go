// Package utils contains general helper functions used across the pj tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Project file and directory names shared across packages.
const (
	// IgnoreFileName is the name of the project's ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the pj configuration file.
	ConfigFileName = ".pj.yaml"
	// GlobalConfigDirectoryName is the directory under the home directory holding the global configuration.
	GlobalConfigDirectoryName = ".pj"
)

const (
	pathSegmentSeparator = "/"
	parentDirectory      = ".."
)

// DeduplicatePatterns removes duplicate patterns from a slice and drops blank ones.
// The last occurrence of each pattern is kept, so a deduplicated rule list
// decides every path exactly as the original list does under last-match-wins.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	reversed := make([]string, 0, len(patterns))
	for index := len(patterns) - 1; index >= 0; index-- {
		trimmedPattern := strings.TrimSpace(patterns[index])
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			reversed = append(reversed, trimmedPattern)
		}
	}
	result := make([]string, 0, len(reversed))
	for index := len(reversed) - 1; index >= 0; index-- {
		result = append(result, reversed[index])
	}
	return result
}

// JoinRelativePath appends name to a slash separated relative parent path.
// An empty parent denotes the scan root.
func JoinRelativePath(parentPath string, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + pathSegmentSeparator + name
}

// IsWellFormedRelativePath reports whether relativePath is a clean, slash separated
// path below the root: not absolute, no empty segments and no ".." segments.
func IsWellFormedRelativePath(relativePath string) bool {
	if relativePath == "" || strings.HasPrefix(relativePath, pathSegmentSeparator) || filepath.IsAbs(relativePath) {
		return false
	}
	for _, segment := range strings.Split(relativePath, pathSegmentSeparator) {
		if segment == "" || segment == "." || segment == parentDirectory {
			return false
		}
	}
	return true
}

// FileExtension returns the lower-case extension of name without the leading dot.
// Names without an extension, including dotfiles such as ".env", return "".
func FileExtension(name string) string {
	extension := filepath.Ext(name)
	if extension == "" || extension == name {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(extension, "."))
}
