// Package classify decides whether a file's content can be included in a dump.
package classify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tyemirov/pj/internal/types"
	"github.com/tyemirov/pj/internal/utils"
)

const (
	// DefaultMaxFileSize is the content ceiling applied when none is configured.
	DefaultMaxFileSize int64 = 1 << 20
	// DefaultSniffLength is the prefix inspected for binary markers.
	DefaultSniffLength = 8000

	nonPrintableRatioLimit = 0.30

	reasonTooLargeFormat = "%s exceeds %s"
	reasonBinary         = "binary content"
	reasonInvalidUTF8    = "invalid UTF-8"
	reasonChangedSize    = "file changed during scan"
)

// Classifier reads files and assigns them a ContentKind.
type Classifier struct {
	// MaxFileSize is the largest file whose content is read. Zero selects DefaultMaxFileSize.
	MaxFileSize int64
	// SniffLength bounds the prefix checked for binary markers. Zero selects DefaultSniffLength.
	SniffLength int
}

// New returns a classifier with the given size ceiling.
func New(maxFileSize int64) Classifier {
	return Classifier{MaxFileSize: maxFileSize, SniffLength: DefaultSniffLength}
}

// Classify inspects the file at absolutePath whose size was recorded during
// traversal. Failures never escape: they become ContentKindUnreadable.
func (classifier Classifier) Classify(absolutePath string, size int64) types.Classification {
	maxFileSize := classifier.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if size > maxFileSize {
		return types.Classification{
			Kind:   types.ContentKindTooLarge,
			Reason: fmt.Sprintf(reasonTooLargeFormat, utils.FormatFileSize(size), utils.FormatFileSize(maxFileSize)),
		}
	}

	fileHandle, openError := os.Open(absolutePath)
	if openError != nil {
		return unreadable(openError)
	}
	defer fileHandle.Close()

	sniffLength := classifier.SniffLength
	if sniffLength <= 0 {
		sniffLength = DefaultSniffLength
	}
	prefix := make([]byte, sniffLength)
	bytesRead, readError := io.ReadFull(fileHandle, prefix)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return unreadable(readError)
	}
	prefix = prefix[:bytesRead]
	if IsBinary(prefix) {
		return types.Classification{Kind: types.ContentKindBinary, Reason: reasonBinary}
	}

	// The size limit is re-applied to the read so a file growing after the
	// walk cannot bypass it.
	remainder, readError := io.ReadAll(io.LimitReader(fileHandle, maxFileSize-int64(bytesRead)+1))
	if readError != nil {
		return unreadable(readError)
	}
	content := append(prefix, remainder...)
	if int64(len(content)) > maxFileSize {
		return types.Classification{Kind: types.ContentKindTooLarge, Reason: reasonChangedSize}
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return types.Classification{Kind: types.ContentKindBinary, Reason: reasonBinary}
	}
	if !utf8.Valid(content) {
		return types.Classification{Kind: types.ContentKindBinary, Reason: reasonInvalidUTF8}
	}

	text := string(content)
	return types.Classification{Kind: types.ContentKindText, Content: text, Lines: CountLines(text)}
}

// IsBinary reports whether data contains a NUL byte or too many control bytes.
// Bytes above 0x7f are treated as printable so UTF-8 text passes.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	nonPrintable := 0
	for _, byteValue := range data {
		switch {
		case byteValue == 0:
			return true
		case byteValue == '\t', byteValue == '\n', byteValue == '\r', byteValue == '\f', byteValue == '\b', byteValue == 0x1b:
		case byteValue < 0x20, byteValue == 0x7f:
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > nonPrintableRatioLimit
}

// CountLines counts lines the way a reader splitting on newlines sees them:
// a trailing newline does not start a new line and empty text has none.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}
	return lines
}

func unreadable(err error) types.Classification {
	return types.Classification{Kind: types.ContentKindUnreadable, Reason: utils.UnwrapPathError(err).Error()}
}
