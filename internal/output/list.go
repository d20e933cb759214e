package output

import (
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/tyemirov/pj/internal/types"
	"github.com/tyemirov/pj/internal/utils"
)

const (
	listSizeHeader = "Size"
	listPathHeader = "Path"
	noSourceFiles  = "<no source files>"
	listSeparator  = ""
)

// ListOptions controls optional parts of the list rendering.
type ListOptions struct {
	Summary      *types.ScanStats
	PlainSummary bool
}

// RenderList renders the file entries as a size table, largest first.
func RenderList(entries []types.Entry, options ListOptions) string {
	files := make([]types.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Kind == types.EntryKindFile {
			files = append(files, entry)
		}
	}
	sort.SliceStable(files, func(left, right int) bool {
		if files[left].Size != files[right].Size {
			return files[left].Size > files[right].Size
		}
		return files[left].Path < files[right].Path
	})

	var builder strings.Builder
	if len(files) == 0 {
		builder.WriteString(noSourceFiles + newline)
	} else {
		table := tablewriter.NewWriter(&builder)
		table.SetHeader([]string{listSizeHeader, listPathHeader})
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetCenterSeparator(listSeparator)
		table.SetColumnSeparator(listSeparator)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
		for _, file := range files {
			table.Append([]string{utils.FormatFileSize(file.Size), file.Path})
		}
		table.Render()
	}

	if options.Summary != nil {
		builder.WriteString(newline)
		builder.WriteString(RenderSummary(*options.Summary, options.PlainSummary))
	}
	return builder.String()
}
