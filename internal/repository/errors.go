package repository

import "errors"

// ErrInlineData is returned when a turn carrying binary parts is appended to
// a backend that only stores text. Histories accumulate text turns only.
var ErrInlineData = errors.New("repository: inline data cannot be stored in history")
