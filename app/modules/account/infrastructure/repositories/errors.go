package accountdb

import "errors"

// ErrNotFound indicates no linked account exists for the chat user.
var ErrNotFound = errors.New("linked account not found")
