package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
)

type liveKey struct {
	employeeID string
	date       time.Time
}

// AttendanceRepository is an in-memory attendance.Repository. A single mutex
// serializes all writes, which gives the same per-(employee, day) guarantees
// as the conditional UPDATEs in the PostgreSQL implementation.
type AttendanceRepository struct {
	mu      sync.Mutex
	records map[liveKey]attendance.Record
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[liveKey]attendance.Record),
	}
}

func keyOf(employeeID string, date time.Time) liveKey {
	return liveKey{employeeID: employeeID, date: clock.Midnight(date)}
}

// CreateIfAbsent implements attendance.Repository.
func (r *AttendanceRepository) CreateIfAbsent(_ context.Context, record attendance.Record) (bool, attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(record.EmployeeID, record.Date)
	if existing, ok := r.records[key]; ok {
		return false, existing, nil
	}

	now := time.Now().UTC()
	record.ID = uuid.NewString()
	record.Date = key.date
	record.CreatedAt = now
	record.UpdatedAt = now
	r.records[key] = record

	return true, record, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (r *AttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[keyOf(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Reopen implements attendance.Repository.
func (r *AttendanceRepository) Reopen(_ context.Context, employeeID string, date time.Time, at time.Time) (bool, attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(employeeID, date)
	record, ok := r.records[key]
	if !ok || record.Status != attendance.StatusOut {
		return false, record, nil
	}

	record.CurrentCheckinTime = at
	record.Status = attendance.StatusIn
	record.UpdatedAt = time.Now().UTC()
	r.records[key] = record

	return true, record, nil
}

// Close implements attendance.Repository.
func (r *AttendanceRepository) Close(_ context.Context, employeeID string, date time.Time, at time.Time, expectedCheckin time.Time, elapsedHours float64) (bool, attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(employeeID, date)
	record, ok := r.records[key]
	if !ok || record.Status != attendance.StatusIn || !record.CurrentCheckinTime.Equal(expectedCheckin) {
		return false, record, nil
	}

	checkout := at
	record.CheckoutTime = &checkout
	record.Status = attendance.StatusOut
	record.WorkingHours += elapsedHours
	record.UpdatedAt = time.Now().UTC()
	r.records[key] = record

	return true, record, nil
}

// ListByDate implements attendance.Repository.
func (r *AttendanceRepository) ListByDate(_ context.Context, date time.Time) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := clock.Midnight(date)
	var out []attendance.Record
	for key, record := range r.records {
		if key.date.Equal(day) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

// ListByEmployeeAndRange implements attendance.Repository.
func (r *AttendanceRepository) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromDay, toDay := clock.Midnight(from), clock.Midnight(to)
	var out []attendance.Record
	for key, record := range r.records {
		if key.employeeID != employeeID {
			continue
		}
		if key.date.Before(fromDay) || key.date.After(toDay) {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// DeleteByID implements attendance.Repository.
func (r *AttendanceRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, record := range r.records {
		if record.ID == id {
			delete(r.records, key)
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}
