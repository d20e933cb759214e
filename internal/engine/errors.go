package engine

import (
	"errors"
	"fmt"

	"github.com/tyemirov/pj/internal/utils"
)

var (
	// ErrRootMissing reports a scan root that does not exist.
	ErrRootMissing = errors.New("root does not exist")
	// ErrRootNotDirectory reports a scan root that is not a directory.
	ErrRootNotDirectory = errors.New("root is not a directory")
)

const (
	configErrorFormat      = "invalid configuration for %s: %v"
	configErrorWithoutRoot = "invalid configuration: %v"
	limitFilesErrorFormat  = "found %d files (limit: %d); use --force to proceed anyway"
	limitSizeErrorFormat   = "total size is %s (limit: %s); use --force to proceed anyway"
)

// ConfigError is returned before any traversal when the root or the rules are invalid.
type ConfigError struct {
	Root string
	Err  error
}

func (configError *ConfigError) Error() string {
	if configError.Root == "" {
		return fmt.Sprintf(configErrorWithoutRoot, configError.Err)
	}
	return fmt.Sprintf(configErrorFormat, configError.Root, configError.Err)
}

func (configError *ConfigError) Unwrap() error {
	return configError.Err
}

// LimitError is returned when a dump would exceed the configured file count or size.
type LimitError struct {
	Files        int
	MaxFiles     int
	TotalSize    int64
	MaxTotalSize int64
}

func (limitError *LimitError) Error() string {
	if limitError.MaxFiles > 0 && limitError.Files > limitError.MaxFiles {
		return fmt.Sprintf(limitFilesErrorFormat, limitError.Files, limitError.MaxFiles)
	}
	return fmt.Sprintf(limitSizeErrorFormat, utils.FormatMegabytes(limitError.TotalSize), utils.FormatMegabytes(limitError.MaxTotalSize))
}
