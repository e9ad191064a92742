// Package store provides screening result persistence in memory, Postgres,
// and Redis variants behind the screening.Store interface.
package store

import "errors"

// ErrNotFound is returned when no result exists for the requested client.
var ErrNotFound = errors.New("screening result not found")
