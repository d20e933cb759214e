package output_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/pj/internal/output"
	"github.com/tyemirov/pj/internal/types"
)

const sampleTreeExpected = "proj/\n" +
	"├── a/\n" +
	"│   ├── b.txt\n" +
	"│   └── c/\n" +
	"│       └── d.txt\n" +
	"├── e.txt\n" +
	"└── link -> a\n"

func sampleEntries() []types.Entry {
	return []types.Entry{
		{Path: "a", Name: "a", Depth: 1, Kind: types.EntryKindDirectory},
		{Path: "a/b.txt", Name: "b.txt", Depth: 2, Kind: types.EntryKindFile, Size: 10},
		{Path: "a/c", Name: "c", Depth: 2, Kind: types.EntryKindDirectory},
		{Path: "a/c/d.txt", Name: "d.txt", Depth: 3, Kind: types.EntryKindFile, Size: 2048},
		{Path: "e.txt", Name: "e.txt", Depth: 1, Kind: types.EntryKindFile, Size: 10},
		{Path: "link", Name: "link", Depth: 1, Kind: types.EntryKindSymlink, LinkTarget: "a"},
	}
}

func TestRenderTree(testingInstance *testing.T) {
	rendered := output.RenderTree("proj", sampleEntries(), output.TreeOptions{})
	assert.Equal(testingInstance, sampleTreeExpected, rendered)
}

func TestRenderTreeLineCountAndIndentation(testingInstance *testing.T) {
	entries := sampleEntries()
	lines := strings.Split(strings.TrimSuffix(output.RenderTree("proj", entries, output.TreeOptions{}), "\n"), "\n")

	require.Len(testingInstance, lines, len(entries)+1)
	for index, entry := range entries {
		line := lines[index+1]
		connector := strings.Index(line, entry.Name)
		require.Positive(testingInstance, connector)
		assert.Equal(testingInstance, entry.Depth, len([]rune(line[:connector]))/4, line)
	}
}

func TestRenderTreeEmpty(testingInstance *testing.T) {
	assert.Equal(testingInstance, "empty/\n", output.RenderTree("empty/", nil, output.TreeOptions{}))
}

func TestRenderTreeErrorPlaceholder(testingInstance *testing.T) {
	entries := []types.Entry{
		{Path: "locked", Name: "locked", Depth: 1, Kind: types.EntryKindDirectory, Err: errors.New("permission denied")},
	}
	assert.Equal(testingInstance, "r/\n└── locked/ [error: permission denied]\n", output.RenderTree("r", entries, output.TreeOptions{}))
}

func TestRenderTreeWithSummary(testingInstance *testing.T) {
	stats := types.NewScanStats()
	stats.IncludedFiles = 3
	stats.ExcludedFiles = 1
	stats.IncludedExtensions["txt"] = struct{}{}
	stats.FilteredOutExtensions["png"] = struct{}{}

	rendered := output.RenderTree("proj", sampleEntries(), output.TreeOptions{Summary: &stats})

	assert.True(testingInstance, strings.HasPrefix(rendered, sampleTreeExpected))
	assert.Contains(testingInstance, rendered, "--- Filter Summary ---")
	assert.Contains(testingInstance, rendered, "txt")
	assert.Contains(testingInstance, rendered, "png")
}

func sampleDump() types.DumpOutput {
	entries := sampleEntries()
	return types.DumpOutput{
		Root:       "./proj",
		TotalFiles: 2,
		TotalLines: 3,
		Sections: []types.DumpSection{
			{Entry: entries[1], Classification: types.Classification{Kind: types.ContentKindText, Content: "one\ntwo\n", Lines: 2}},
			{Entry: entries[3], Classification: types.Classification{Kind: types.ContentKindBinary, Reason: "binary content"}},
			{Entry: entries[4], Classification: types.Classification{Kind: types.ContentKindText, Content: "no newline", Lines: 1}},
		},
	}
}

func TestRenderDump(testingInstance *testing.T) {
	expected := "Project: ./proj\n" +
		"Files: 2\n" +
		"Lines: 3\n" +
		"\n" +
		sampleTreeExpected +
		"\n" +
		"===== BEGIN FILE: a/b.txt (8 bytes) =====\n" +
		"one\ntwo\n" +
		"===== END FILE: a/b.txt =====\n" +
		"\n" +
		"===== SKIPPED FILE: a/c/d.txt (binary) =====\n" +
		"\n" +
		"===== BEGIN FILE: e.txt (11 bytes) =====\n" +
		"no newline\n" +
		"===== END FILE: e.txt =====\n"

	assert.Equal(testingInstance, expected, output.RenderDump(sampleDump(), "proj", sampleEntries()))
}

func TestRenderDumpTokens(testingInstance *testing.T) {
	dump := types.DumpOutput{Root: ".", TotalTokens: 42, TokenModel: "gpt-4o"}
	rendered := output.RenderDump(dump, "proj", nil)
	assert.Equal(testingInstance, "Project: .\nFiles: 0\nLines: 0\nTokens: 42 (gpt-4o)\n\nproj/\n", rendered)
}

func TestSplitDumpRecoversSections(testingInstance *testing.T) {
	dump := sampleDump()
	dump.Sections = append(dump.Sections,
		types.DumpSection{
			Entry:          types.Entry{Path: "empty.txt", Name: "empty.txt", Depth: 1, Kind: types.EntryKindFile},
			Classification: types.Classification{Kind: types.ContentKindText},
		},
		types.DumpSection{
			Entry:          types.Entry{Path: "huge.bin", Name: "huge.bin", Depth: 1, Kind: types.EntryKindFile},
			Classification: types.Classification{Kind: types.ContentKindTooLarge, Reason: "2.0 MB exceeds 1.0 MB"},
		},
	)

	files := output.SplitDump(output.RenderDump(dump, "proj", sampleEntries()))

	require.Len(testingInstance, files, 5)
	assert.Equal(testingInstance, output.DumpedFile{Path: "a/b.txt", Content: "one\ntwo\n"}, files[0])
	assert.Equal(testingInstance, output.DumpedFile{Path: "a/c/d.txt", Skipped: true, Reason: "binary"}, files[1])
	assert.Equal(testingInstance, output.DumpedFile{Path: "e.txt", Content: "no newline\n"}, files[2])
	assert.Equal(testingInstance, output.DumpedFile{Path: "empty.txt"}, files[3])
	assert.Equal(testingInstance, output.DumpedFile{Path: "huge.bin", Skipped: true, Reason: "too large: 2.0 MB exceeds 1.0 MB"}, files[4])
}

func TestSplitDumpKeepsMarkerLikeContent(testingInstance *testing.T) {
	content := "===== END FILE: other.txt =====\n===== BEGIN FILE: x =====\n"
	dump := types.DumpOutput{
		Root: ".",
		Sections: []types.DumpSection{{
			Entry:          types.Entry{Path: "doc.md", Name: "doc.md", Depth: 1, Kind: types.EntryKindFile},
			Classification: types.Classification{Kind: types.ContentKindText, Content: content},
		}},
	}
	files := output.SplitDump(output.RenderDump(dump, "r", nil))
	require.Len(testingInstance, files, 1)
	assert.Equal(testingInstance, content, files[0].Content)
}

func TestSplitDumpKeepsOwnEndMarkerInContent(testingInstance *testing.T) {
	content := "before\n===== END FILE: a.txt =====\nafter\n"
	dump := types.DumpOutput{
		Root: ".",
		Sections: []types.DumpSection{
			{
				Entry:          types.Entry{Path: "a.txt", Name: "a.txt", Depth: 1, Kind: types.EntryKindFile},
				Classification: types.Classification{Kind: types.ContentKindText, Content: content},
			},
			{
				Entry:          types.Entry{Path: "b.txt", Name: "b.txt", Depth: 1, Kind: types.EntryKindFile},
				Classification: types.Classification{Kind: types.ContentKindText, Content: "b\n"},
			},
		},
	}
	files := output.SplitDump(output.RenderDump(dump, "r", nil))
	require.Len(testingInstance, files, 2)
	assert.Equal(testingInstance, output.DumpedFile{Path: "a.txt", Content: content}, files[0])
	assert.Equal(testingInstance, output.DumpedFile{Path: "b.txt", Content: "b\n"}, files[1])
}

func TestControlCharactersInNamesAreQuoted(testingInstance *testing.T) {
	entries := []types.Entry{
		{Path: "evil\nname.txt", Name: "evil\nname.txt", Depth: 1, Kind: types.EntryKindFile},
		{Path: "ok.txt", Name: "ok.txt", Depth: 1, Kind: types.EntryKindFile},
		{Path: "tab\there.bin", Name: "tab\there.bin", Depth: 1, Kind: types.EntryKindFile},
	}

	tree := output.RenderTree("r", entries, output.TreeOptions{})
	assert.Equal(testingInstance, "r/\n├── \"evil\\nname.txt\"\n├── ok.txt\n└── \"tab\\there.bin\"\n", tree)

	dump := types.DumpOutput{
		Root: ".",
		Sections: []types.DumpSection{
			{Entry: entries[0], Classification: types.Classification{Kind: types.ContentKindText, Content: "evil\n"}},
			{Entry: entries[1], Classification: types.Classification{Kind: types.ContentKindText, Content: "ok\n"}},
			{Entry: entries[2], Classification: types.Classification{Kind: types.ContentKindBinary}},
		},
	}
	files := output.SplitDump(output.RenderDump(dump, "r", entries))
	require.Len(testingInstance, files, 3)
	assert.Equal(testingInstance, output.DumpedFile{Path: "evil\nname.txt", Content: "evil\n"}, files[0])
	assert.Equal(testingInstance, output.DumpedFile{Path: "ok.txt", Content: "ok\n"}, files[1])
	assert.Equal(testingInstance, output.DumpedFile{Path: "tab\there.bin", Skipped: true, Reason: "binary"}, files[2])
}

func TestLeadingQuoteNamesRoundTrip(testingInstance *testing.T) {
	entry := types.Entry{Path: `"quoted".txt`, Name: `"quoted".txt`, Depth: 1, Kind: types.EntryKindFile}
	dump := types.DumpOutput{
		Root:     ".",
		Sections: []types.DumpSection{{Entry: entry, Classification: types.Classification{Kind: types.ContentKindText, Content: "x\n"}}},
	}
	files := output.SplitDump(output.RenderDump(dump, "r", []types.Entry{entry}))
	require.Len(testingInstance, files, 1)
	assert.Equal(testingInstance, `"quoted".txt`, files[0].Path)
}

func TestRenderListOrdersBySizeDescending(testingInstance *testing.T) {
	rendered := output.RenderList(sampleEntries(), output.ListOptions{})

	largest := strings.Index(rendered, "a/c/d.txt")
	tieFirst := strings.Index(rendered, "a/b.txt")
	tieSecond := strings.Index(rendered, "e.txt")
	require.NotEqual(testingInstance, -1, largest)
	assert.Less(testingInstance, largest, tieFirst)
	assert.Less(testingInstance, tieFirst, tieSecond)
	assert.Contains(testingInstance, rendered, "2.0 KB")
	assert.NotContains(testingInstance, rendered, "link")
}

func TestRenderListEmpty(testingInstance *testing.T) {
	assert.Equal(testingInstance, "<no source files>\n", output.RenderList(nil, output.ListOptions{}))
}

func TestRenderSummaryEmpty(testingInstance *testing.T) {
	rendered := output.RenderSummary(types.NewScanStats(), false)
	assert.Contains(testingInstance, rendered, "Extensions included (")
	assert.Contains(testingInstance, rendered, "<none>")
	assert.Contains(testingInstance, rendered, "Total files processed:")
}
