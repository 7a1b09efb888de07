package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped) so
// the service can translate them into domain errors:
// - ErrNotFound: no import is stored under the key
// - ErrConflict: a concurrent writer claimed the same import id
// - ErrUnavailable: the backing store cannot be reached
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
