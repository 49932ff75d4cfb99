package activity

import "errors"

// ErrInvalidInput indicates an activity entry or query that cannot be used.
var ErrInvalidInput = errors.New("invalid activity input")
