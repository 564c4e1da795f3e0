package repository

import "errors"

// ErrNoRows reports that a guarded write matched nothing: the row does
// not exist or belongs to someone else. Callers use errors.Is to tell
// this apart from a failed query.
var ErrNoRows = errors.New("no matching row")
