package utils

import (
	"errors"
	"io/fs"
)

// UnwrapPathError drops the operation and absolute path from an fs.PathError,
// keeping only the underlying cause. Other errors are returned unchanged.
func UnwrapPathError(err error) error {
	var pathError *fs.PathError
	if errors.As(err, &pathError) {
		return pathError.Err
	}
	return err
}
