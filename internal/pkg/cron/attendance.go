package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/worktally/attendance-backend-go/internal/domain/archive"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
)

// AttendanceJobs wires the nightly archiver into the scheduler.
type AttendanceJobs struct {
	archiveSvc archive.Service
	clk        clock.Clock
}

func NewAttendanceJobs(archiveSvc archive.Service, clk clock.Clock) *AttendanceJobs {
	return &AttendanceJobs{
		archiveSvc: archiveSvc,
		clk:        clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("archive_previous_day", 1*time.Hour, j.ArchivePreviousDay)
}

// ArchivePreviousDay moves yesterday's live records into history. The job
// ticks hourly but only acts in the midnight hour; a partial failure is
// retried on the next eligible tick because failed sources stay live.
func (j *AttendanceJobs) ArchivePreviousDay(ctx context.Context) error {
	now := j.clk.Now()

	// Only run at midnight (00:00-00:59 UTC)
	if now.Hour() != 0 {
		return nil
	}

	yesterday := clock.Midnight(now).AddDate(0, 0, -1)
	slog.Info("Cron: Starting attendance archive job", "date", yesterday.Format("2006-01-02"))

	result, err := j.archiveSvc.Run(ctx, yesterday)
	if err != nil {
		if errors.Is(err, archive.ErrPartialFailure) {
			slog.Warn("Cron: Attendance archive partially failed",
				"archived", result.ArchivedCount, "failed", len(result.Failures))
		}
		return err
	}

	slog.Info("Cron: Attendance archive completed", "archived", result.ArchivedCount)
	return nil
}
