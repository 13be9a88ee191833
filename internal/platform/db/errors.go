package db

import "errors"

// ErrNotFound is returned by repositories when the requested row is absent.
// Handlers translate it to an empty result or 404 rather than a fault.
var ErrNotFound = errors.New("not found")
