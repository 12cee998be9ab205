package db

import "errors"

// ErrNotFound is returned by store lookups when no row matches the
// given id. Callers surface it to distinguish missing records from
// storage failures.
var ErrNotFound = errors.New("record not found")
