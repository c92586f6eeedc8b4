package attendance

import (
	"time"

	"github.com/worktally/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
	// At is optional; zero means "use the server clock".
	At time.Time `json:"at,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be 3-32 characters (letters, digits, _ or -)",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string    `json:"employee_id"`
	At         time.Time `json:"at,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be 3-32 characters (letters, digits, _ or -)",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HistoryRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	EmployeeName       string   `json:"employee_name"`
	Email              string   `json:"email"`
	Date               string   `json:"date"`
	CheckinTime        *string  `json:"checkin_time,omitempty"`
	CurrentCheckinTime *string  `json:"current_checkin_time,omitempty"`
	CheckoutTime       *string  `json:"checkout_time,omitempty"`
	Status             string   `json:"status"`
	WorkingHours       float64  `json:"working_hours"`
	ElapsedHours       *float64 `json:"elapsed_hours,omitempty"`
}

type TodayAttendanceResponse struct {
	Date         string           `json:"date"`
	TotalRecords int              `json:"total_records"`
	Records      []RecordResponse `json:"records"`
}

type HistoryResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Email        string  `json:"email"`
	Date         string  `json:"date"`
	CheckinTime  *string `json:"checkin_time,omitempty"`
	CheckoutTime *string `json:"checkout_time,omitempty"`
	Status       string  `json:"status"`
	WorkingHours float64 `json:"working_hours"`
}

type StatsResponse struct {
	TotalEmployees       int    `json:"total_employees"`
	PresentCount         int    `json:"present_count"`
	AbsentCount          int    `json:"absent_count"`
	AttendancePercentage int    `json:"attendance_percentage"`
	Summary              string `json:"summary"`
}
