package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Storage drivers and stores return
// these (optionally wrapped) so services can translate them into domain errors.
//
// They describe the state of a resource, not the validity of user input:
// - ErrNotFound: key or record does not exist
// - ErrConflict: a concurrent writer or submission holds the resource; retry later
// - ErrInvalidState: stored value is not in the shape the reader expects
//
// Field validation failures are never errors; they are a rejected submission.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)
