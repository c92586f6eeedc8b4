package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, employee_id, employee_name, email, date,
	checkin_time, current_checkin_time, checkout_time,
	status, working_hours, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Email, &rec.Date,
		&rec.CheckinTime, &rec.CurrentCheckinTime, &rec.CheckoutTime,
		&rec.Status, &rec.WorkingHours, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// CreateIfAbsent implements attendance.Repository. The unique index on
// (employee_id, date) makes the insert conditional: a concurrent first
// check-in loses the race and sees created=false.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, record attendance.Record) (bool, attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	insert := `
		INSERT INTO attendances (
			employee_id, employee_name, email, date,
			checkin_time, current_checkin_time, status, working_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, insert,
		record.EmployeeID,
		record.EmployeeName,
		record.Email,
		record.Date,
		record.CheckinTime,
		record.CurrentCheckinTime,
		record.Status,
		record.WorkingHours,
	))
	if err == nil {
		return true, created, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, attendance.Record{}, database.TransientError{Err: fmt.Errorf("failed to create attendance: %w", err)}
	}

	// Conflict: return the existing row so the caller can report the open
	// session's check-in time.
	existing, err := a.GetByEmployeeAndDate(ctx, record.EmployeeID, record.Date)
	if err != nil {
		return false, attendance.Record{}, err
	}
	if existing == nil {
		return false, attendance.Record{}, attendance.ErrConcurrentUpdate
	}
	return false, *existing, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, database.TransientError{Err: fmt.Errorf("failed to get attendance by employee and date: %w", err)}
	}

	return &rec, nil
}

// Reopen implements attendance.Repository. The status guard in the WHERE
// clause serializes the transition against concurrent check-ins.
func (a *attendanceRepository) Reopen(ctx context.Context, employeeID string, date time.Time, at time.Time) (bool, attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	update := `
		UPDATE attendances
		SET current_checkin_time = $3,
		    status = $4,
		    updated_at = NOW()
		WHERE employee_id = $1
		  AND date = $2
		  AND status = $5
		RETURNING ` + attendanceColumns

	rec, err := scanAttendance(q.QueryRow(ctx, update, employeeID, date, at, attendance.StatusIn, attendance.StatusOut))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, attendance.Record{}, nil
		}
		return false, attendance.Record{}, database.TransientError{Err: fmt.Errorf("failed to reopen attendance: %w", err)}
	}

	return true, rec, nil
}

// Close implements attendance.Repository. Guarded by status = "in" and the
// expected current check-in time so a racing transition loses cleanly.
func (a *attendanceRepository) Close(ctx context.Context, employeeID string, date time.Time, at time.Time, expectedCheckin time.Time, elapsedHours float64) (bool, attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	update := `
		UPDATE attendances
		SET checkout_time = $3,
		    status = $4,
		    working_hours = working_hours + $5,
		    updated_at = NOW()
		WHERE employee_id = $1
		  AND date = $2
		  AND status = $6
		  AND current_checkin_time = $7
		RETURNING ` + attendanceColumns

	rec, err := scanAttendance(q.QueryRow(ctx, update,
		employeeID, date, at, attendance.StatusOut, elapsedHours,
		attendance.StatusIn, expectedCheckin,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, attendance.Record{}, nil
		}
		return false, attendance.Record{}, database.TransientError{Err: fmt.Errorf("failed to close attendance: %w", err)}
	}

	return true, rec, nil
}

// ListByDate implements attendance.Repository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, database.TransientError{Err: fmt.Errorf("failed to query attendances: %w", err)}
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListByEmployeeAndRange implements attendance.Repository.
func (a *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, database.TransientError{Err: fmt.Errorf("failed to query attendances: %w", err)}
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteByID implements attendance.Repository.
func (a *attendanceRepository) DeleteByID(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return database.TransientError{Err: fmt.Errorf("failed to delete attendance: %w", err)}
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
