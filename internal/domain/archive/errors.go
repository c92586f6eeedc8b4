package archive

import "errors"

// Archive domain errors
var (
	// ErrPartialFailure means some but not all records were archived; the
	// failed sources stay live and are eligible for a retry run.
	ErrPartialFailure = errors.New("some attendance records could not be archived")
)
