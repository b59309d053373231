package repository

import "errors"

// ErrNotFound is returned by all lookup methods when no record matches.
var ErrNotFound = errors.New("record not found")
