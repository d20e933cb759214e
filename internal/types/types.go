// Package types defines every cross‑package data structure used by the pj CLI.
package types

import (
	"fmt"
	"strings"
)

// EntryKind classifies a filesystem node visited during a scan.
type EntryKind int

const (
	EntryKindDirectory EntryKind = iota
	EntryKindFile
	EntryKindSymlink
	EntryKindOther
)

// String returns the lower-case name of the kind.
func (kind EntryKind) String() string {
	switch kind {
	case EntryKindDirectory:
		return "directory"
	case EntryKindFile:
		return "file"
	case EntryKindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

const pathSeparator = "/"

// Entry is an immutable snapshot of one filesystem node taken at traversal time.
// Path is relative to the scan root, slash separated, and never contains "..".
type Entry struct {
	Path       string
	Name       string
	Depth      int
	Kind       EntryKind
	Size       int64
	LinkTarget string
	Err        error
}

// Components returns the relative path split into its components.
func (entry Entry) Components() []string {
	if entry.Path == "" {
		return nil
	}
	return strings.Split(entry.Path, pathSeparator)
}

// IsDir reports whether the entry is a directory.
func (entry Entry) IsDir() bool { return entry.Kind == EntryKindDirectory }

// RenderMode selects the output produced by the engine.
type RenderMode int

const (
	RenderModeDump RenderMode = iota
	RenderModeTree
	RenderModeList
)

const (
	ModeNameDump = "dump"
	ModeNameTree = "tree"
	ModeNameList = "list"

	unknownModeFormat = "unknown render mode %q"
)

// String returns the configuration name of the mode.
func (mode RenderMode) String() string {
	switch mode {
	case RenderModeTree:
		return ModeNameTree
	case RenderModeList:
		return ModeNameList
	default:
		return ModeNameDump
	}
}

// ParseRenderMode converts a configuration value into a RenderMode.
// An empty value selects the dump mode.
func ParseRenderMode(value string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", ModeNameDump:
		return RenderModeDump, nil
	case ModeNameTree:
		return RenderModeTree, nil
	case ModeNameList:
		return RenderModeList, nil
	default:
		return RenderModeDump, fmt.Errorf(unknownModeFormat, value)
	}
}

// ContentKind is the outcome of classifying a file for the dump.
type ContentKind int

const (
	ContentKindText ContentKind = iota
	ContentKindBinary
	ContentKindTooLarge
	ContentKindUnreadable
)

// String returns the placeholder reason used for omitted content.
func (kind ContentKind) String() string {
	switch kind {
	case ContentKindText:
		return "text"
	case ContentKindBinary:
		return "binary"
	case ContentKindTooLarge:
		return "too large"
	default:
		return "unreadable"
	}
}

// Classification holds the classifier verdict for a single file.
// Content and Lines are only populated for ContentKindText.
type Classification struct {
	Kind    ContentKind
	Content string
	Lines   int
	Reason  string
}

// DumpSection is one file of the dump with its classification.
type DumpSection struct {
	Entry          Entry
	Classification Classification
}

// IsText reports whether the section carries file content.
func (section DumpSection) IsText() bool {
	return section.Classification.Kind == ContentKindText
}

// DumpOutput is the ordered collection of sections rendered in dump mode.
type DumpOutput struct {
	Root        string
	Sections    []DumpSection
	TotalFiles  int
	TotalLines  int
	TotalTokens int
	TokenModel  string
}

// ScanStats captures what a walk included and filtered out.
type ScanStats struct {
	IncludedFiles         int
	ExcludedFiles         int
	IncludedExtensions    map[string]struct{}
	FilteredOutExtensions map[string]struct{}
}

// NewScanStats returns empty statistics ready for accumulation.
func NewScanStats() ScanStats {
	return ScanStats{
		IncludedExtensions:    map[string]struct{}{},
		FilteredOutExtensions: map[string]struct{}{},
	}
}

// TotalProcessedFiles is the number of files the walk looked at.
func (stats ScanStats) TotalProcessedFiles() int {
	return stats.IncludedFiles + stats.ExcludedFiles
}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	DisplayPath  string
	AbsolutePath string
}
