package repository

import "errors"

// ErrNotFound is returned when a requested submission does not exist.
var ErrNotFound = errors.New("not found")
