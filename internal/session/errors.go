package session

import "errors"

var (
	// ErrNotSignedIn is returned when an operation requires an
	// authenticated session and none is installed.
	ErrNotSignedIn = errors.New("session: not signed in")

	// ErrIncompleteExchange is returned when the credential exchange
	// response is missing the user profile or either token.
	ErrIncompleteExchange = errors.New("session: credential exchange response missing user or tokens")
)
