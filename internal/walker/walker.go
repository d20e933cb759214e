// Package walker performs the ordered depth-first traversal of a scan root.
package walker

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"github.com/tyemirov/pj/internal/filter"
	"github.com/tyemirov/pj/internal/types"
	"github.com/tyemirov/pj/internal/utils"
)

// ErrMalformedEntryName marks a directory entry whose name would not form a
// clean path below the root. Such entries are reported but never opened.
var ErrMalformedEntryName = errors.New("malformed entry name")

// Decider is the subset of filter.PathFilter the walker consults.
type Decider interface {
	Decide(relativePath string, kind types.EntryKind) filter.Decision
}

// directoryFrame is one level of the explicit traversal stack.
type directoryFrame struct {
	absolutePath string
	relativePath string
	depth        int
	children     []fs.DirEntry
	nextChild    int
}

// Walker yields the entries below a root lazily, in deterministic order.
// A Walker is single use: once exhausted it stays exhausted.
type Walker struct {
	decider       Decider
	stack         []*directoryFrame
	stats         types.ScanStats
	started       bool
	rootErr       error
	root          string
	readDirectory func(string) ([]fs.DirEntry, error)
}

// New returns a walker over root. A nil decider includes everything.
func New(root string, decider Decider) *Walker {
	return &Walker{
		root:          root,
		decider:       decider,
		stats:         types.NewScanStats(),
		readDirectory: readSortedDirectory,
	}
}

// Next returns the next entry, or false when the traversal is complete.
func (walker *Walker) Next() (types.Entry, bool) {
	if !walker.started {
		walker.started = true
		children, readError := walker.readDirectory(walker.root)
		if readError != nil {
			walker.rootErr = readError
			return types.Entry{}, false
		}
		walker.stack = append(walker.stack, &directoryFrame{absolutePath: walker.root, children: children})
	}

	for len(walker.stack) > 0 {
		frame := walker.stack[len(walker.stack)-1]
		if frame.nextChild >= len(frame.children) {
			walker.stack = walker.stack[:len(walker.stack)-1]
			continue
		}
		child := frame.children[frame.nextChild]
		frame.nextChild++

		entry := types.Entry{
			Path:  utils.JoinRelativePath(frame.relativePath, child.Name()),
			Name:  child.Name(),
			Depth: frame.depth + 1,
			Kind:  kindOf(child.Type()),
		}
		if !utils.IsWellFormedRelativePath(entry.Path) {
			entry.Err = ErrMalformedEntryName
			return entry, true
		}
		if walker.decide(entry) == filter.Exclude {
			continue
		}

		absolutePath := filepath.Join(frame.absolutePath, child.Name())
		switch entry.Kind {
		case types.EntryKindDirectory:
			children, readError := walker.readDirectory(absolutePath)
			if readError != nil {
				entry.Err = readError
				return entry, true
			}
			walker.stack = append(walker.stack, &directoryFrame{
				absolutePath: absolutePath,
				relativePath: entry.Path,
				depth:        entry.Depth,
				children:     children,
			})
		case types.EntryKindFile:
			info, infoError := child.Info()
			if infoError != nil {
				entry.Err = utils.UnwrapPathError(infoError)
			} else {
				entry.Size = info.Size()
			}
			walker.recordIncludedFile(entry)
		case types.EntryKindSymlink:
			target, linkError := os.Readlink(absolutePath)
			if linkError != nil {
				entry.Err = utils.UnwrapPathError(linkError)
			} else {
				entry.LinkTarget = filepath.ToSlash(target)
			}
		}
		return entry, true
	}
	return types.Entry{}, false
}

// Entries exposes the remaining traversal as a single-use sequence.
func (walker *Walker) Entries() iter.Seq[types.Entry] {
	return func(yield func(types.Entry) bool) {
		for {
			entry, ok := walker.Next()
			if !ok || !yield(entry) {
				return
			}
		}
	}
}

// Collect drains the walker into a slice.
func (walker *Walker) Collect() []types.Entry {
	var entries []types.Entry
	for entry := range walker.Entries() {
		entries = append(entries, entry)
	}
	return entries
}

// Err reports a failure to list the root itself.
func (walker *Walker) Err() error {
	return walker.rootErr
}

// Stats returns the statistics accumulated so far.
func (walker *Walker) Stats() types.ScanStats {
	return walker.stats
}

func (walker *Walker) decide(entry types.Entry) filter.Decision {
	if walker.decider == nil {
		return filter.Include
	}
	decision := walker.decider.Decide(entry.Path, entry.Kind)
	if decision == filter.Exclude && entry.Kind != types.EntryKindDirectory {
		walker.stats.ExcludedFiles++
		if extension := utils.FileExtension(entry.Name); extension != "" {
			walker.stats.FilteredOutExtensions[extension] = struct{}{}
		}
	}
	return decision
}

func (walker *Walker) recordIncludedFile(entry types.Entry) {
	walker.stats.IncludedFiles++
	if extension := utils.FileExtension(entry.Name); extension != "" {
		walker.stats.IncludedExtensions[extension] = struct{}{}
	}
}

// readSortedDirectory lists a directory without following symlinks and sorts
// children by name.
func readSortedDirectory(directoryPath string) ([]fs.DirEntry, error) {
	children, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, utils.UnwrapPathError(readError)
	}
	sort.SliceStable(children, func(left, right int) bool {
		return children[left].Name() < children[right].Name()
	})
	return children, nil
}

func kindOf(mode fs.FileMode) types.EntryKind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return types.EntryKindSymlink
	case mode.IsDir():
		return types.EntryKindDirectory
	case mode.IsRegular():
		return types.EntryKindFile
	default:
		return types.EntryKindOther
	}
}
