package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tyemirov/pj/internal/types"
)

const (
	summaryHeading        = "--- Filter Summary ---"
	summaryIncludedFormat = "Extensions included (%s): %s\n"
	summaryFilteredFormat = "Extensions filtered out (%s): %s\n"
	summaryTotalsFormat   = "Total files processed: %s (%s included, %s excluded)\n"
	summaryNone           = "<none>"
	extensionSeparator    = ", "
)

type summaryStyles struct {
	included lipgloss.Style
	filtered lipgloss.Style
	count    lipgloss.Style
}

var (
	terminalSummaryStyles = newSummaryStyles(lipgloss.DefaultRenderer())
	plainSummaryStyles    = newSummaryStyles(newProfileRenderer(termenv.Ascii))
)

func newSummaryStyles(renderer *lipgloss.Renderer) summaryStyles {
	return summaryStyles{
		included: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		filtered: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		count:    renderer.NewStyle().Bold(true),
	}
}

func newProfileRenderer(profile termenv.Profile) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(profile)
	return renderer
}

// RenderSummary reports which extensions a scan kept and which it filtered out.
// Colors are only emitted when standard output is a terminal and plain is false.
func RenderSummary(stats types.ScanStats, plain bool) string {
	if plain {
		return renderSummary(stats, plainSummaryStyles)
	}
	return renderSummary(stats, terminalSummaryStyles)
}

func renderSummary(stats types.ScanStats, styles summaryStyles) string {
	var builder strings.Builder
	builder.WriteString(summaryHeading + newline)

	included := sortedKeys(stats.IncludedExtensions)
	fmt.Fprintf(&builder, summaryIncludedFormat,
		styles.included.Render(fmt.Sprint(len(included))),
		styles.included.Render(joinOrNone(included)))

	filtered := sortedKeys(stats.FilteredOutExtensions)
	fmt.Fprintf(&builder, summaryFilteredFormat,
		styles.filtered.Render(fmt.Sprint(len(filtered))),
		styles.filtered.Render(joinOrNone(filtered)))

	fmt.Fprintf(&builder, summaryTotalsFormat,
		styles.count.Render(fmt.Sprint(stats.TotalProcessedFiles())),
		styles.included.Render(fmt.Sprint(stats.IncludedFiles)),
		styles.filtered.Render(fmt.Sprint(stats.ExcludedFiles)))
	return builder.String()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return summaryNone
	}
	return strings.Join(values, extensionSeparator)
}
