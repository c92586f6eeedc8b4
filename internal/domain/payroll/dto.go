package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/worktally/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PAYROLL DTOs
// ========================================

type SummaryRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MonthlyReportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

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

// SummaryResponse carries the daily/weekly/monthly totals for one employee,
// relative to the reference date of the calculation.
type SummaryResponse struct {
	EmployeeID string          `json:"employee_id"`
	Date       string          `json:"date"`
	Daily      decimal.Decimal `json:"daily"`
	Weekly     decimal.Decimal `json:"weekly"`
	Monthly    decimal.Decimal `json:"monthly"`
}

type ReportRow struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Date         string          `json:"date"`
	Status       string          `json:"status"`
	WorkingHours float64         `json:"working_hours"`
	DailySalary  decimal.Decimal `json:"daily_salary"`
}

type MonthlyReportResponse struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Rows  []ReportRow `json:"rows"`
}
