package accountservice

import "errors"

var (
	// ErrNotLinked indicates the chat user has no stored osu! account.
	// Handlers report it as a normal domain failure.
	ErrNotLinked = errors.New("account not linked")

	// ErrInvalidLink indicates a link request with an empty username or an
	// unknown mode or server.
	ErrInvalidLink = errors.New("invalid link request")
)
