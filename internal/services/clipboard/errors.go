package clipboard

import "errors"

// ErrUnsupported reports that no clipboard mechanism is available.
var ErrUnsupported = errors.New("clipboard is not supported on this system")
