package attendance

import (
	"context"
	"time"
)

// Repository defines data access for live attendance records. Writes use
// conditional updates so that per-(employee, day) transitions are serialized
// by the store rather than by a read-then-write in the service.
type Repository interface {
	// CreateIfAbsent inserts a new record unless one already exists for the
	// same (employee, date). Returns created=false when the row was already
	// there, which the caller treats as a lost check-in race.
	CreateIfAbsent(ctx context.Context, record Record) (created bool, out Record, err error)

	// GetByEmployeeAndDate retrieves the record for a specific employee on a
	// specific date. Returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// Reopen sets status back to "in" and stamps a new current check-in time,
	// guarded by status = "out". Returns reopened=false when the guard failed.
	Reopen(ctx context.Context, employeeID string, date time.Time, at time.Time) (reopened bool, out Record, err error)

	// Close completes the open session: sets the checkout time, flips status
	// to "out" and adds elapsedHours to the running total. Guarded by
	// status = "in" and the expected current check-in time so a racing
	// transition loses cleanly. Returns closed=false when the guard failed.
	Close(ctx context.Context, employeeID string, date time.Time, at time.Time, expectedCheckin time.Time, elapsedHours float64) (closed bool, out Record, err error)

	// ListByDate retrieves all live records for a calendar day
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)

	// ListByEmployeeAndRange retrieves live records for an employee within
	// [from, to] inclusive
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	// DeleteByID removes a single live record (used by the archiver after a
	// successful history write)
	DeleteByID(ctx context.Context, id string) error
}

// HistoryRepository defines data access for archived attendance records.
// The table is append-only; there is no update or delete.
type HistoryRepository interface {
	// Create appends one history record
	Create(ctx context.Context, record HistoryRecord) (HistoryRecord, error)

	// ListByEmployeeAndRange retrieves history for an employee within
	// [from, to] inclusive, newest first
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]HistoryRecord, error)

	// ListByRange retrieves history for all employees within [from, to]
	// inclusive, newest first
	ListByRange(ctx context.Context, from, to time.Time) ([]HistoryRecord, error)
}
