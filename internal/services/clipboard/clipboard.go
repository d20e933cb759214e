// Package clipboard copies rendered output to the system clipboard.
package clipboard

import (
	"fmt"

	systemclipboard "github.com/atotto/clipboard"
)

const errorClipboardWriteFormat = "write clipboard: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard. It fails on systems without a
// clipboard utility.
func (service *Service) Copy(text string) error {
	if systemclipboard.Unsupported {
		return fmt.Errorf(errorClipboardWriteFormat, ErrUnsupported)
	}
	if err := systemclipboard.WriteAll(text); err != nil {
		return fmt.Errorf(errorClipboardWriteFormat, err)
	}
	return nil
}

// CopierFunc adapts a function to the Copier interface.
type CopierFunc func(text string) error

// Copy calls the function.
func (copierFunc CopierFunc) Copy(text string) error {
	return copierFunc(text)
}

var (
	_ Copier = (*Service)(nil)
	_ Copier = CopierFunc(nil)
)
