// Package output renders collected scan results as text. Every renderer is a
// pure function over in-memory data.
package output

import (
	"fmt"
	"strings"

	"github.com/tyemirov/pj/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directoryMarker = "/"
	symlinkArrow    = " -> "
	errorAnnotation = " [error: %s]"
	newline         = "\n"
)

// TreeOptions controls optional parts of the tree rendering.
type TreeOptions struct {
	// Summary, when set, appends the filter summary after the tree.
	Summary *types.ScanStats

	// PlainSummary renders the summary without terminal styling.
	PlainSummary bool
}

// RenderTree renders entries, in walk order, beneath a root line. Each entry
// produces exactly one line.
func RenderTree(rootName string, entries []types.Entry, options TreeOptions) string {
	var builder strings.Builder
	writeTree(&builder, rootName, entries)
	if options.Summary != nil {
		builder.WriteString(newline)
		builder.WriteString(RenderSummary(*options.Summary, options.PlainSummary))
	}
	return builder.String()
}

func writeTree(builder *strings.Builder, rootName string, entries []types.Entry) {
	builder.WriteString(displayText(strings.TrimSuffix(rootName, directoryMarker)) + directoryMarker + newline)

	lastSibling := lastSiblingFlags(entries)
	ancestorIsLast := []bool{false}
	for index, entry := range entries {
		depth := entry.Depth
		if depth < 1 {
			depth = 1
		}
		for len(ancestorIsLast) <= depth {
			ancestorIsLast = append(ancestorIsLast, false)
		}
		for level := 1; level < depth; level++ {
			if ancestorIsLast[level] {
				builder.WriteString(treeLastPadding)
			} else {
				builder.WriteString(treeBranchPadding)
			}
		}
		if lastSibling[index] {
			builder.WriteString(treeLastConnector)
		} else {
			builder.WriteString(treeBranchConnector)
		}
		builder.WriteString(entryLabel(entry))
		builder.WriteString(newline)
		ancestorIsLast[depth] = lastSibling[index]
	}
}

// lastSiblingFlags marks entries that have no later sibling. Walking backwards,
// the first entry seen at a depth is the last child of its parent; reaching a
// shallower entry starts a new parent for every deeper level.
func lastSiblingFlags(entries []types.Entry) []bool {
	flags := make([]bool, len(entries))
	var seenAtDepth []bool
	for index := len(entries) - 1; index >= 0; index-- {
		depth := entries[index].Depth
		for len(seenAtDepth) <= depth {
			seenAtDepth = append(seenAtDepth, false)
		}
		flags[index] = !seenAtDepth[depth]
		seenAtDepth[depth] = true
		for deeper := depth + 1; deeper < len(seenAtDepth); deeper++ {
			seenAtDepth[deeper] = false
		}
	}
	return flags
}

func entryLabel(entry types.Entry) string {
	label := displayText(entry.Name)
	switch entry.Kind {
	case types.EntryKindDirectory:
		label += directoryMarker
	case types.EntryKindSymlink:
		if entry.LinkTarget != "" {
			label += symlinkArrow + displayText(entry.LinkTarget)
		}
	}
	if entry.Err != nil {
		label += fmt.Sprintf(errorAnnotation, displayText(entry.Err.Error()))
	}
	return label
}
