package walker

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/pj/internal/types"
)

type stubDirEntry struct {
	name string
	mode fs.FileMode
}

func (entry stubDirEntry) Name() string               { return entry.name }
func (entry stubDirEntry) IsDir() bool                { return entry.mode.IsDir() }
func (entry stubDirEntry) Type() fs.FileMode          { return entry.mode.Type() }
func (entry stubDirEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrNotExist }

func TestWalkReportsMalformedNamesWithoutOpeningThem(t *testing.T) {
	root := t.TempDir()
	var listed []string
	scanner := New(root, nil)
	scanner.readDirectory = func(directoryPath string) ([]fs.DirEntry, error) {
		listed = append(listed, directoryPath)
		return []fs.DirEntry{
			stubDirEntry{name: "", mode: fs.ModeDir},
			stubDirEntry{name: ".", mode: fs.ModeDir},
			stubDirEntry{name: "..", mode: fs.ModeDir},
		}, nil
	}

	entries := scanner.Collect()

	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.ErrorIs(t, entry.Err, ErrMalformedEntryName)
		assert.Equal(t, types.EntryKindDirectory, entry.Kind)
	}
	assert.Equal(t, []string{root}, listed, "malformed directories are never listed")
	assert.Zero(t, scanner.Stats().IncludedFiles)
}
