package attendance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/domain/employee"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
	"github.com/worktally/attendance-backend-go/internal/pkg/notify"
)

type AttendanceServiceImpl struct {
	clk clock.Clock
	attendance.Repository
	attendance.HistoryRepository
	employee.Directory
	notifier notify.Notifier
}

func NewAttendanceService(
	clk clock.Clock,
	repo attendance.Repository,
	history attendance.HistoryRepository,
	directory employee.Directory,
	notifier notify.Notifier,
) attendance.Service {
	return &AttendanceServiceImpl{
		clk:               clk,
		Repository:        repo,
		HistoryRepository: history,
		Directory:         directory,
		notifier:          notifier,
	}
}

const timeFormat = "2006-01-02 15:04:05"

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(timeFormat)
	return &format
}

func timeToString(t time.Time) *string {
	format := t.Format(timeFormat)
	return &format
}

// roundHours rounds to two decimal places, halves away from zero.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// CheckIn implements attendance.Service. The first check-in of the day creates
// the record; a later check-in after a check-out reopens it without touching
// CheckinTime or the accumulated working hours.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	at := req.At
	if at.IsZero() {
		at = a.clk.Now()
	}
	at = at.UTC()
	day := clock.Midnight(at)

	emp, err := a.Directory.FindByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !emp.Active {
		return attendance.RecordResponse{}, employee.ErrEmployeeInactive
	}

	record := attendance.Record{
		EmployeeID:         emp.ID,
		EmployeeName:       emp.Name,
		Email:              emp.Email,
		Date:               day,
		CheckinTime:        at,
		CurrentCheckinTime: at,
		Status:             attendance.StatusIn,
	}

	var created bool
	var out attendance.Record
	err = database.WithRetry(ctx, "attendance.create", func(ctx context.Context) error {
		var opErr error
		created, out, opErr = a.Repository.CreateIfAbsent(ctx, record)
		return opErr
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	if !created {
		// A record for today already exists. An open session means this is a
		// duplicate check-in; a closed one gets reopened.
		if out.Open() {
			return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
		}

		var reopened bool
		err = database.WithRetry(ctx, "attendance.reopen", func(ctx context.Context) error {
			var opErr error
			reopened, out, opErr = a.Repository.Reopen(ctx, emp.ID, day, at)
			return opErr
		})
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to reopen attendance: %w", err)
		}
		if !reopened {
			// The status guard failed: a concurrent check-in got there first.
			return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
		}
	}

	a.publish(ctx, notify.KindCheckedIn, a.toRecordResponse(out, nil))

	return a.toRecordResponse(out, nil), nil
}

// CheckOut implements attendance.Service. Working hours for the session are
// computed against the current check-in time and added to the day's total.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	at := req.At
	if at.IsZero() {
		at = a.clk.Now()
	}
	at = at.UTC()
	day := clock.Midnight(at)

	if _, err := a.Directory.FindByID(ctx, req.EmployeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	var current *attendance.Record
	err := database.WithRetry(ctx, "attendance.get", func(ctx context.Context) error {
		var opErr error
		current, opErr = a.Repository.GetByEmployeeAndDate(ctx, req.EmployeeID, day)
		return opErr
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if current == nil {
		return attendance.RecordResponse{}, attendance.ErrNoCheckinToday
	}
	if !current.Open() {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}

	elapsed := at.Sub(current.CurrentCheckinTime).Hours()
	if elapsed < 0 {
		return attendance.RecordResponse{}, attendance.ErrNegativeElapsed
	}
	elapsed = roundHours(elapsed)
	if current.WorkingHours+elapsed > 24 {
		return attendance.RecordResponse{}, attendance.ErrImplausibleElapsed
	}

	var closed bool
	var out attendance.Record
	err = database.WithRetry(ctx, "attendance.close", func(ctx context.Context) error {
		var opErr error
		closed, out, opErr = a.Repository.Close(ctx, req.EmployeeID, day, at, current.CurrentCheckinTime, elapsed)
		return opErr
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to close attendance: %w", err)
	}
	if !closed {
		// The guard failed: the session was closed (or reopened) by a
		// concurrent request between our read and the update.
		latest, getErr := a.Repository.GetByEmployeeAndDate(ctx, req.EmployeeID, day)
		if getErr == nil && latest != nil && !latest.Open() {
			return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.RecordResponse{}, attendance.ErrConcurrentUpdate
	}

	a.publish(ctx, notify.KindCheckedOut, a.toRecordResponse(out, &elapsed))

	return a.toRecordResponse(out, &elapsed), nil
}

// GetTodayAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) GetTodayAttendance(ctx context.Context) (attendance.TodayAttendanceResponse, error) {
	now := a.clk.Now()
	day := clock.Midnight(now)

	var records []attendance.Record
	err := database.WithRetry(ctx, "attendance.list_today", func(ctx context.Context) error {
		var opErr error
		records, opErr = a.Repository.ListByDate(ctx, day)
		return opErr
	})
	if err != nil {
		return attendance.TodayAttendanceResponse{}, fmt.Errorf("failed to list today attendance: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, record := range records {
		var elapsed *float64
		if record.Open() {
			e := roundHours(now.Sub(record.CurrentCheckinTime).Hours())
			if e >= 0 {
				elapsed = &e
			}
		}
		responses = append(responses, a.toRecordResponse(record, elapsed))
	}

	return attendance.TodayAttendanceResponse{
		Date:         day.Format("2006-01-02"),
		TotalRecords: len(responses),
		Records:      responses,
	}, nil
}

// GetAttendanceHistory implements attendance.Service. Live and archived
// records for the month are merged; when both exist for the same day the
// archived one wins, so a rerun of the archiver never produces duplicates in
// the output.
func (a *AttendanceServiceImpl) GetAttendanceHistory(ctx context.Context, req attendance.HistoryRequest) ([]attendance.HistoryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := a.Directory.FindByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var archived []attendance.HistoryRecord
	err := database.WithRetry(ctx, "history.list", func(ctx context.Context) error {
		var opErr error
		archived, opErr = a.HistoryRepository.ListByEmployeeAndRange(ctx, req.EmployeeID, from, to)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	var live []attendance.Record
	err = database.WithRetry(ctx, "attendance.list_range", func(ctx context.Context) error {
		var opErr error
		live, opErr = a.Repository.ListByEmployeeAndRange(ctx, req.EmployeeID, from, to)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	seen := make(map[string]bool, len(archived))
	responses := make([]attendance.HistoryResponse, 0, len(archived)+len(live))
	for _, record := range archived {
		key := record.Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		responses = append(responses, attendance.HistoryResponse{
			ID:           record.ID,
			EmployeeID:   record.EmployeeID,
			EmployeeName: record.EmployeeName,
			Email:        record.Email,
			Date:         key,
			CheckinTime:  timePtrToString(record.CheckinTime),
			CheckoutTime: timePtrToString(record.CheckoutTime),
			Status:       record.Status,
			WorkingHours: record.WorkingHours,
		})
	}
	for i := len(live) - 1; i >= 0; i-- { // live comes oldest first
		record := live[i]
		key := record.Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		responses = append(responses, attendance.HistoryResponse{
			ID:           record.ID,
			EmployeeID:   record.EmployeeID,
			EmployeeName: record.EmployeeName,
			Email:        record.Email,
			Date:         key,
			CheckinTime:  timeToString(record.CheckinTime),
			CheckoutTime: timePtrToString(record.CheckoutTime),
			Status:       attendance.HistoryPresent,
			WorkingHours: record.WorkingHours,
		})
	}

	sortHistoryNewestFirst(responses)

	return responses, nil
}

// GetAttendanceStats implements attendance.Service.
func (a *AttendanceServiceImpl) GetAttendanceStats(ctx context.Context, at time.Time) (attendance.StatsResponse, error) {
	day := clock.Midnight(at)

	roster, err := a.Directory.ListActive(ctx)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	var records []attendance.Record
	err = database.WithRetry(ctx, "attendance.list_today", func(ctx context.Context) error {
		var opErr error
		records, opErr = a.Repository.ListByDate(ctx, day)
		return opErr
	})
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to list today attendance: %w", err)
	}

	active := make(map[string]bool, len(roster))
	for _, emp := range roster {
		active[emp.ID] = true
	}

	present := 0
	for _, record := range records {
		if active[record.EmployeeID] {
			present++
		}
	}

	total := len(roster)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(present) / float64(total) * 100))
	}

	return attendance.StatsResponse{
		TotalEmployees:       total,
		PresentCount:         present,
		AbsentCount:          total - present,
		AttendancePercentage: percentage,
		Summary:              fmt.Sprintf("%d of %d employees present today", present, total),
	}, nil
}

func (a *AttendanceServiceImpl) toRecordResponse(record attendance.Record, elapsed *float64) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:                 record.ID,
		EmployeeID:         record.EmployeeID,
		EmployeeName:       record.EmployeeName,
		Email:              record.Email,
		Date:               record.Date.Format("2006-01-02"),
		CheckinTime:        timeToString(record.CheckinTime),
		CurrentCheckinTime: timeToString(record.CurrentCheckinTime),
		CheckoutTime:       timePtrToString(record.CheckoutTime),
		Status:             record.Status,
		WorkingHours:       record.WorkingHours,
		ElapsedHours:       elapsed,
	}
}

// publish pushes an event without blocking the request. A failing notifier
// never fails the attendance write.
func (a *AttendanceServiceImpl) publish(ctx context.Context, kind string, payload interface{}) {
	if a.notifier == nil {
		return
	}
	go func() {
		_ = a.notifier.Publish(context.WithoutCancel(ctx), kind, payload)
	}()
}

func sortHistoryNewestFirst(responses []attendance.HistoryResponse) {
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].Date > responses[j].Date
	})
}
