// Package common defines the sentinel errors shared by the persistence
// layer and both HTTP servers. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// ErrNotFound signals an absent row on lookups where absence is
	// a normal outcome (e.g. no daily note for a date).
	ErrNotFound = errors.New("not found")

	// ErrStoreWrite signals an insert/update/delete that reported no
	// affected rows or failed in transport.
	ErrStoreWrite = errors.New("store write failed")

	// ErrConnection signals that the store is unreachable or rejected
	// the configured credentials.
	ErrConnection = errors.New("store connection failed")

	// ErrValidation signals caller-side input validation failure,
	// detected before any store call is made.
	ErrValidation = errors.New("validation failed")
)
