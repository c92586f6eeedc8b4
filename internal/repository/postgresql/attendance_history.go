package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
)

type historyRepository struct {
	db *database.DB
}

const historyColumns = `
	id, employee_id, employee_name, email, date,
	checkin_time, checkout_time, status, working_hours, created_at
`

func scanHistory(row pgx.Row) (attendance.HistoryRecord, error) {
	var rec attendance.HistoryRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Email, &rec.Date,
		&rec.CheckinTime, &rec.CheckoutTime, &rec.Status, &rec.WorkingHours, &rec.CreatedAt,
	)
	return rec, err
}

// Create implements attendance.HistoryRepository. Plain INSERT: duplicate rows
// from an archive rerun are tolerated and deduplicated by readers.
func (h *historyRepository) Create(ctx context.Context, record attendance.HistoryRecord) (attendance.HistoryRecord, error) {
	q := GetQuerier(ctx, h.db)

	insert := `
		INSERT INTO attendance_history (
			employee_id, employee_name, email, date,
			checkin_time, checkout_time, status, working_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING ` + historyColumns

	rec, err := scanHistory(q.QueryRow(ctx, insert,
		record.EmployeeID,
		record.EmployeeName,
		record.Email,
		record.Date,
		record.CheckinTime,
		record.CheckoutTime,
		record.Status,
		record.WorkingHours,
	))
	if err != nil {
		return attendance.HistoryRecord{}, database.TransientError{Err: fmt.Errorf("failed to create attendance history: %w", err)}
	}

	return rec, nil
}

// ListByEmployeeAndRange implements attendance.HistoryRepository.
func (h *historyRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.HistoryRecord, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT ` + historyColumns + `
		FROM attendance_history
		WHERE employee_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, database.TransientError{Err: fmt.Errorf("failed to query attendance history: %w", err)}
	}
	defer rows.Close()

	var records []attendance.HistoryRecord
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance history: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListByRange implements attendance.HistoryRepository.
func (h *historyRepository) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.HistoryRecord, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT ` + historyColumns + `
		FROM attendance_history
		WHERE date >= $1
		  AND date <= $2
		ORDER BY date DESC, employee_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, database.TransientError{Err: fmt.Errorf("failed to query attendance history: %w", err)}
	}
	defer rows.Close()

	var records []attendance.HistoryRecord
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance history: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func NewHistoryRepository(db *database.DB) attendance.HistoryRepository {
	return &historyRepository{db: db}
}
