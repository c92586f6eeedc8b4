package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/worktally/attendance-backend-go/internal/domain/archive"
	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
	"github.com/worktally/attendance-backend-go/internal/pkg/notify"
)

// TxRunner executes fn atomically when the store supports it. A nil runner
// degrades to plain sequential execution, which is still safe: the history
// write happens before the source delete, and readers deduplicate.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type ArchiveServiceImpl struct {
	attendance.Repository
	attendance.HistoryRepository
	notifier notify.Notifier
	runTx    TxRunner
}

func NewArchiveService(
	repo attendance.Repository,
	history attendance.HistoryRepository,
	notifier notify.Notifier,
	runTx TxRunner,
) archive.Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &ArchiveServiceImpl{
		Repository:        repo,
		HistoryRepository: history,
		notifier:          notifier,
		runTx:             runTx,
	}
}

// Run implements archive.Service. Records are moved one at a time so a single
// bad row cannot block the rest of the day; each failed source stays live and
// is picked up again by the next run.
func (s *ArchiveServiceImpl) Run(ctx context.Context, forDate time.Time) (archive.Result, error) {
	day := clock.Midnight(forDate)
	result := archive.Result{
		RunID: uuid.NewString(),
		Date:  day.Format("2006-01-02"),
	}

	var records []attendance.Record
	err := database.WithRetry(ctx, "attendance.list_archive", func(ctx context.Context) error {
		var opErr error
		records, opErr = s.Repository.ListByDate(ctx, day)
		return opErr
	})
	if err != nil {
		return result, fmt.Errorf("failed to list attendance for archiving: %w", err)
	}

	slog.Info("Archive run started", "run_id", result.RunID, "date", result.Date, "records", len(records))

	for _, record := range records {
		if err := s.archiveOne(ctx, record); err != nil {
			result.Failures = append(result.Failures, archive.Failure{
				EmployeeID: record.EmployeeID,
				RecordID:   record.ID,
				Err:        err.Error(),
			})
			slog.Error("Failed to archive attendance record",
				"run_id", result.RunID, "employee_id", record.EmployeeID, "record_id", record.ID, "error", err)
			continue
		}
		result.ArchivedCount++
	}

	slog.Info("Archive run finished",
		"run_id", result.RunID, "archived", result.ArchivedCount, "failed", len(result.Failures))

	if s.notifier != nil {
		go func() {
			_ = s.notifier.Publish(context.WithoutCancel(ctx), notify.KindArchived, result)
		}()
	}

	if len(result.Failures) > 0 {
		return result, archive.ErrPartialFailure
	}
	return result, nil
}

// archiveOne copies a live record into history and deletes the source. Under
// a transactional runner both happen or neither does; without one, a crash
// between the two leaves a duplicate that readers deduplicate.
func (s *ArchiveServiceImpl) archiveOne(ctx context.Context, record attendance.Record) error {
	// Retry wraps the whole transaction: an aborted transaction cannot be
	// resumed statement by statement.
	return database.WithRetry(ctx, "archive.record", func(ctx context.Context) error {
		return s.runTx(ctx, func(ctx context.Context) error {
			if _, err := s.HistoryRepository.Create(ctx, toHistoryRecord(record)); err != nil {
				return fmt.Errorf("failed to create history record: %w", err)
			}
			if err := s.Repository.DeleteByID(ctx, record.ID); err != nil {
				return fmt.Errorf("failed to delete source record: %w", err)
			}
			return nil
		})
	})
}

// toHistoryRecord maps a live record to its archived form. Both session states
// archive as Present: the employee was there that day either way.
func toHistoryRecord(record attendance.Record) attendance.HistoryRecord {
	checkin := record.CheckinTime
	return attendance.HistoryRecord{
		EmployeeID:   record.EmployeeID,
		EmployeeName: record.EmployeeName,
		Email:        record.Email,
		Date:         record.Date,
		CheckinTime:  &checkin,
		CheckoutTime: record.CheckoutTime,
		Status:       attendance.HistoryPresent,
		WorkingHours: record.WorkingHours,
	}
}
