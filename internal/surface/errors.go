package surface

import "errors"

// ErrSurfaceInit means no drawing surface could be acquired. Nothing can be
// rendered without one, so callers abort at startup.
var ErrSurfaceInit = errors.New("surface: cannot initialise drawing surface")
