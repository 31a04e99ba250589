package sdk

import "fmt"

// APIError is a structured failure reported by the FitLog server. The
// message is the server's human-readable explanation and is surfaced to
// callers verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Credential invalidation messages the server uses on 401 responses.
// Any other 401 is an ordinary request failure.
const (
	msgTokenExpired = "token.expired"
	msgTokenInvalid = "token.invalid"
)

func isInvalidationMessage(msg string) bool {
	return msg == msgTokenExpired || msg == msgTokenInvalid
}
