// Package store provides durable key-value persistence for the session
// records fitctl keeps between runs.
package store

import "errors"

// Keys for the two session records. The session manager always writes and
// removes them as a pair; the store itself treats them independently.
const (
	KeyProfile     = "auth.profile"
	KeyCredentials = "auth.credentials"
)

// ErrAbsent is returned by Get when no record exists under the key.
// A record that exists but cannot be decoded is reported as a distinct
// error, so callers can decide whether to treat it as absence.
var ErrAbsent = errors.New("store: record absent")

// Store persists JSON-serializable session records.
type Store interface {
	// Save overwrites the record under key unconditionally.
	Save(key string, value any) error
	// Get decodes the record under key into out. Returns ErrAbsent when the
	// key does not exist.
	Get(key string, out any) error
	// Remove deletes the record under key. Removing an absent key is a no-op.
	Remove(key string) error
}
