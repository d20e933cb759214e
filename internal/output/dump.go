package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyemirov/pj/internal/types"
)

const (
	headerProjectFormat = "Project: %s\n"
	headerFilesFormat   = "Files: %d\n"
	headerLinesFormat   = "Lines: %d\n"
	headerTokensFormat  = "Tokens: %d\n"
	headerTokensModel   = "Tokens: %d (%s)\n"

	beginMarkerPrefix   = "===== BEGIN FILE: "
	endMarkerPrefix     = "===== END FILE: "
	skippedMarkerPrefix = "===== SKIPPED FILE: "
	markerSuffix        = " ====="
	detailOpen          = " ("
	detailClose         = ")"
	byteCountSuffix     = " bytes"

	beginMarkerFormat   = beginMarkerPrefix + "%s (%d bytes)" + markerSuffix + "\n"
	endMarkerFormat     = endMarkerPrefix + "%s" + markerSuffix + "\n"
	skippedMarkerFormat = skippedMarkerPrefix + "%s (%s)" + markerSuffix + "\n"
)

// RenderDump renders the header, the structural tree of entries and one
// delimited section per dumped file.
func RenderDump(dump types.DumpOutput, rootName string, entries []types.Entry) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, headerProjectFormat, displayText(dump.Root))
	fmt.Fprintf(&builder, headerFilesFormat, dump.TotalFiles)
	fmt.Fprintf(&builder, headerLinesFormat, dump.TotalLines)
	if dump.TokenModel != "" {
		fmt.Fprintf(&builder, headerTokensModel, dump.TotalTokens, dump.TokenModel)
	} else if dump.TotalTokens > 0 {
		fmt.Fprintf(&builder, headerTokensFormat, dump.TotalTokens)
	}
	builder.WriteString(newline)
	writeTree(&builder, rootName, entries)

	for _, section := range dump.Sections {
		builder.WriteString(newline)
		markerPath := displayText(section.Entry.Path)
		if !section.IsText() {
			fmt.Fprintf(&builder, skippedMarkerFormat, markerPath, displayText(skipReason(section.Classification)))
			continue
		}
		content := section.Classification.Content
		if content != "" && !strings.HasSuffix(content, newline) {
			content += newline
		}
		fmt.Fprintf(&builder, beginMarkerFormat, markerPath, len(content))
		builder.WriteString(content)
		fmt.Fprintf(&builder, endMarkerFormat, markerPath)
	}
	return builder.String()
}

// skipReason names the omission; size and I/O failures carry their detail.
func skipReason(classification types.Classification) string {
	switch classification.Kind {
	case types.ContentKindTooLarge, types.ContentKindUnreadable:
		if classification.Reason != "" {
			return classification.Kind.String() + ": " + classification.Reason
		}
	}
	return classification.Kind.String()
}

// DumpedFile is a section recovered from rendered dump text.
type DumpedFile struct {
	Path    string
	Content string
	Skipped bool
	Reason  string
}

// SplitDump recovers the file sections of a rendered dump. Text before the
// first marker (header and tree) is ignored. A BEGIN marker carries the exact
// byte length of its content, so content that looks like a marker is read
// verbatim. Recovered content always ends with a newline unless empty.
func SplitDump(text string) []DumpedFile {
	var files []DumpedFile
	position := 0
	for position < len(text) {
		line, next := lineAt(text, position)
		position = next
		switch {
		case isMarker(line, beginMarkerPrefix):
			markerPath, contentLength, parsed := parseBeginBody(markerBody(line, beginMarkerPrefix))
			if !parsed || position+contentLength > len(text) {
				continue
			}
			contentEnd := position + contentLength
			endLine, afterEnd := lineAt(text, contentEnd)
			if endLine != endMarkerPrefix+markerPath+markerSuffix {
				continue
			}
			files = append(files, DumpedFile{Path: parseDisplayText(markerPath), Content: text[position:contentEnd]})
			position = afterEnd
		case isMarker(line, skippedMarkerPrefix):
			body := markerBody(line, skippedMarkerPrefix)
			skipped := DumpedFile{Path: parseDisplayText(body), Skipped: true}
			if open := strings.LastIndex(body, detailOpen); open >= 0 && strings.HasSuffix(body, detailClose) {
				skipped.Path = parseDisplayText(body[:open])
				skipped.Reason = parseDisplayText(body[open+len(detailOpen) : len(body)-len(detailClose)])
			}
			files = append(files, skipped)
		}
	}
	return files
}

// lineAt returns the line starting at position without its newline, and the
// offset just past it.
func lineAt(text string, position int) (string, int) {
	lineLength := strings.Index(text[position:], newline)
	if lineLength < 0 {
		return text[position:], len(text)
	}
	return text[position : position+lineLength], position + lineLength + len(newline)
}

// parseBeginBody splits "path (N bytes)" into the marker path and N.
func parseBeginBody(body string) (string, int, bool) {
	open := strings.LastIndex(body, detailOpen)
	if open < 0 || !strings.HasSuffix(body, byteCountSuffix+detailClose) {
		return "", 0, false
	}
	countText := strings.TrimSuffix(body[open+len(detailOpen):], byteCountSuffix+detailClose)
	contentLength, convertError := strconv.Atoi(countText)
	if convertError != nil || contentLength < 0 {
		return "", 0, false
	}
	return body[:open], contentLength, true
}

func isMarker(line, prefix string) bool {
	return strings.HasPrefix(line, prefix) && strings.HasSuffix(line, markerSuffix) && len(line) > len(prefix)+len(markerSuffix)
}

func markerBody(line, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(line, prefix), markerSuffix)
}
