package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/domain/employee"
	"github.com/worktally/attendance-backend-go/internal/domain/payroll"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
)

type PayrollServiceImpl struct {
	attendance.Repository
	attendance.HistoryRepository
	employee.Directory
}

func NewPayrollService(
	repo attendance.Repository,
	history attendance.HistoryRepository,
	directory employee.Directory,
) payroll.Service {
	return &PayrollServiceImpl{
		Repository:        repo,
		HistoryRepository: history,
		Directory:         directory,
	}
}

// workedDay is one calendar day's worth of attendance for a single employee,
// after merging live and archived records.
type workedDay struct {
	date   time.Time
	status string
	hours  float64
}

// CalculatePayroll implements payroll.Service. Daily covers the reference
// date, weekly the trailing seven days ending on it, monthly its calendar
// month. All three are hours times the employee's hourly rate, rounded to two
// decimal places at the end.
func (p *PayrollServiceImpl) CalculatePayroll(ctx context.Context, employeeID string, ref time.Time) (payroll.SummaryResponse, error) {
	emp, err := p.Directory.FindByID(ctx, employeeID)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	refDay := clock.Midnight(ref)
	weekStart := refDay.AddDate(0, 0, -6)
	monthStart := time.Date(refDay.Year(), refDay.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	from := monthStart
	if weekStart.Before(from) {
		from = weekStart
	}
	to := monthEnd
	if refDay.After(to) {
		to = refDay
	}

	days, err := p.mergedDays(ctx, employeeID, from, to)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	var dailyHours, weeklyHours, monthlyHours float64
	for _, day := range days {
		if day.date.Equal(refDay) {
			dailyHours += day.hours
		}
		if !day.date.Before(weekStart) && !day.date.After(refDay) {
			weeklyHours += day.hours
		}
		if !day.date.Before(monthStart) && !day.date.After(monthEnd) {
			monthlyHours += day.hours
		}
	}

	rate := emp.HourlyRate
	return payroll.SummaryResponse{
		EmployeeID: employeeID,
		Date:       refDay.Format("2006-01-02"),
		Daily:      rate.Mul(decimal.NewFromFloat(dailyHours)).Round(2),
		Weekly:     rate.Mul(decimal.NewFromFloat(weeklyHours)).Round(2),
		Monthly:    rate.Mul(decimal.NewFromFloat(monthlyHours)).Round(2),
	}, nil
}

// MonthlyPayrollReport implements payroll.Service. One row per worked day per
// active employee, ordered by employee then date.
func (p *PayrollServiceImpl) MonthlyPayrollReport(ctx context.Context, req payroll.MonthlyReportRequest) (payroll.MonthlyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthlyReportResponse{}, err
	}

	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	roster, err := p.Directory.ListActive(ctx)
	if err != nil {
		return payroll.MonthlyReportResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	var rows []payroll.ReportRow
	for _, emp := range roster {
		days, err := p.mergedDays(ctx, emp.ID, from, to)
		if err != nil {
			return payroll.MonthlyReportResponse{}, err
		}

		sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })
		for _, day := range days {
			rows = append(rows, payroll.ReportRow{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Date:         day.date.Format("2006-01-02"),
				Status:       day.status,
				WorkingHours: day.hours,
				DailySalary:  emp.HourlyRate.Mul(decimal.NewFromFloat(day.hours)).Round(2),
			})
		}
	}

	return payroll.MonthlyReportResponse{
		Year:  req.Year,
		Month: req.Month,
		Rows:  rows,
	}, nil
}

// mergedDays collects per-day hours for one employee over [from, to],
// combining the live table with the archive. An archived row wins over a live
// leftover for the same day, so an archiver rerun never double-counts.
func (p *PayrollServiceImpl) mergedDays(ctx context.Context, employeeID string, from, to time.Time) ([]workedDay, error) {
	var archived []attendance.HistoryRecord
	err := database.WithRetry(ctx, "history.list", func(ctx context.Context) error {
		var opErr error
		archived, opErr = p.HistoryRepository.ListByEmployeeAndRange(ctx, employeeID, from, to)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	var live []attendance.Record
	err = database.WithRetry(ctx, "attendance.list_range", func(ctx context.Context) error {
		var opErr error
		live, opErr = p.Repository.ListByEmployeeAndRange(ctx, employeeID, from, to)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	byDay := make(map[string]workedDay, len(archived)+len(live))
	for _, record := range archived {
		key := record.Date.Format("2006-01-02")
		if _, ok := byDay[key]; ok {
			continue // duplicate archive rows collapse to the first
		}
		byDay[key] = workedDay{date: clock.Midnight(record.Date), status: record.Status, hours: record.WorkingHours}
	}
	for _, record := range live {
		key := record.Date.Format("2006-01-02")
		if _, ok := byDay[key]; ok {
			continue
		}
		byDay[key] = workedDay{date: clock.Midnight(record.Date), status: attendance.HistoryPresent, hours: record.WorkingHours}
	}

	days := make([]workedDay, 0, len(byDay))
	for _, day := range byDay {
		days = append(days, day)
	}
	return days, nil
}
