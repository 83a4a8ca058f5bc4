package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: entity does not exist in the store
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrVersionMismatch: a conditional write lost a race and should be retried
//   - ErrUnavailable: backing resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrVersionMismatch = errors.New("version mismatch")
	ErrUnavailable     = errors.New("unavailable")
)
