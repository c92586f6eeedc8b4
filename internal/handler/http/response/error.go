package response

import (
	"errors"
	"net/http"

	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/domain/employee"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
	"github.com/worktally/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")

	// Attendance state errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out")
	case errors.Is(err, attendance.ErrNoCheckinToday):
		NotFound(w, "No check-in found for today")
	case errors.Is(err, attendance.ErrNoOpenSession):
		Conflict(w, "Must check in before checking out")
	case errors.Is(err, attendance.ErrConcurrentUpdate):
		Conflict(w, "Attendance was modified concurrently, please retry")

	// Attendance input errors
	case errors.Is(err, attendance.ErrNegativeElapsed):
		BadRequest(w, "Check-out time is before the current check-in time", nil)
	case errors.Is(err, attendance.ErrImplausibleElapsed):
		BadRequest(w, "Working hours for a single day cannot exceed 24", nil)
	case errors.Is(err, attendance.ErrInvalidMonth):
		BadRequest(w, "Month must be between 1 and 12", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Store errors
	case errors.Is(err, database.ErrStoreUnavailable):
		ServiceUnavailable(w, "Storage is temporarily unavailable, please retry")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
