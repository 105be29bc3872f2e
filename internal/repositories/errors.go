package repositories

import "errors"

// ErrNotFound is returned when a lookup, update or delete does not resolve to
// a record. Callers distinguish it with errors.Is; every other repository
// error is an infrastructure fault.
var ErrNotFound = errors.New("record not found")
