package payroll

import (
	"context"
	"time"
)

// Service defines business logic for payroll calculations. Summaries are
// derived on demand from attendance hours and the employee's wage rate; they
// are never persisted.
type Service interface {
	// CalculatePayroll computes the daily/weekly/monthly totals for one
	// employee relative to a reference date
	CalculatePayroll(ctx context.Context, employeeID string, ref time.Time) (SummaryResponse, error)

	// MonthlyPayrollReport lists per-day salary rows for every employee with
	// archived attendance in the given month
	MonthlyPayrollReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReportResponse, error)
}
