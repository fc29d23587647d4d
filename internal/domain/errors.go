package domain

import "errors"

// ErrNotFound is returned when a record does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so that
// existence of another user's records never leaks.
var ErrNotFound = errors.New("not found")
