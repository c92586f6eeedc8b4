package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")

	// Check-out errors
	ErrNoCheckinToday    = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrNoOpenSession     = errors.New("must check in before checking out")

	// Input errors
	ErrNegativeElapsed    = errors.New("check-out time is before the current check-in time")
	ErrImplausibleElapsed = errors.New("working hours for a single day cannot exceed 24")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")

	// General errors
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrConcurrentUpdate = errors.New("attendance record was modified concurrently")
)
