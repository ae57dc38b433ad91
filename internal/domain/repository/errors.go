package repository

import "errors"

// ErrNotFound is returned by mutating operations that matched no row.
// Lookups return (nil, nil) for absence instead.
var ErrNotFound = errors.New("record not found")
