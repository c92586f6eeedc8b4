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

// HistoryRepository is an in-memory attendance.HistoryRepository. Append-only,
// like the real table: rows are never mutated once stored.
type HistoryRepository struct {
	mu      sync.Mutex
	records []attendance.HistoryRecord

	// FailFor makes Create fail for the listed employee IDs. Tests use it to
	// exercise partial archive failures.
	FailFor map[string]error
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

// Create implements attendance.HistoryRepository.
func (r *HistoryRepository) Create(_ context.Context, record attendance.HistoryRecord) (attendance.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.FailFor[record.EmployeeID]; ok {
		return attendance.HistoryRecord{}, err
	}

	record.ID = uuid.NewString()
	record.Date = clock.Midnight(record.Date)
	record.CreatedAt = time.Now().UTC()
	r.records = append(r.records, record)

	return record, nil
}

// ListByEmployeeAndRange implements attendance.HistoryRepository.
func (r *HistoryRepository) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromDay, toDay := clock.Midnight(from), clock.Midnight(to)
	var out []attendance.HistoryRecord
	for _, record := range r.records {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.Date.Before(fromDay) || record.Date.After(toDay) {
			continue
		}
		out = append(out, record)
	}
	sortNewestFirst(out)
	return out, nil
}

// ListByRange implements attendance.HistoryRepository.
func (r *HistoryRepository) ListByRange(_ context.Context, from, to time.Time) ([]attendance.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromDay, toDay := clock.Midnight(from), clock.Midnight(to)
	var out []attendance.HistoryRecord
	for _, record := range r.records {
		if record.Date.Before(fromDay) || record.Date.After(toDay) {
			continue
		}
		out = append(out, record)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(records []attendance.HistoryRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})
}
