package archive_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktally/attendance-backend-go/internal/domain/archive"
	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/repository/memory"
	archivesvc "github.com/worktally/attendance-backend-go/internal/service/archive"
)

func seedLiveDay(t *testing.T, repo *memory.AttendanceRepository, employeeID string, date time.Time, status string, hours float64) attendance.Record {
	t.Helper()
	record := attendance.Record{
		EmployeeID:         employeeID,
		EmployeeName:       employeeID + " name",
		Email:              employeeID + "@example.com",
		Date:               date,
		CheckinTime:        date.Add(9 * time.Hour),
		CurrentCheckinTime: date.Add(9 * time.Hour),
		Status:             status,
		WorkingHours:       hours,
	}
	if status == attendance.StatusOut {
		checkout := date.Add(17 * time.Hour)
		record.CheckoutTime = &checkout
	}
	created, out, err := repo.CreateIfAbsent(context.Background(), record)
	require.NoError(t, err)
	require.True(t, created)
	return out
}

func TestArchiveRun(t *testing.T) {
	ctx := context.Background()
	yesterday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("moves live records into history and deletes sources", func(t *testing.T) {
		repo := memory.NewAttendanceRepository()
		history := memory.NewHistoryRepository()
		svc := archivesvc.NewArchiveService(repo, history, nil, nil)

		seedLiveDay(t, repo, "EMP-001", yesterday, attendance.StatusOut, 8)
		seedLiveDay(t, repo, "EMP-002", yesterday, attendance.StatusIn, 0) // forgot to check out
		seedLiveDay(t, repo, "EMP-003", today, attendance.StatusIn, 0)    // not yet elapsed

		result, err := svc.Run(ctx, yesterday)
		require.NoError(t, err)

		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, "2025-03-09", result.Date)
		assert.Equal(t, 2, result.ArchivedCount)
		assert.Empty(t, result.Failures)

		archived, err := history.ListByRange(ctx, yesterday, yesterday)
		require.NoError(t, err)
		require.Len(t, archived, 2)
		for _, record := range archived {
			assert.Equal(t, attendance.HistoryPresent, record.Status, "open and closed sessions both archive as Present")
		}

		remaining, err := repo.ListByDate(ctx, yesterday)
		require.NoError(t, err)
		assert.Empty(t, remaining, "archived sources must be deleted")

		todayRecords, err := repo.ListByDate(ctx, today)
		require.NoError(t, err)
		assert.Len(t, todayRecords, 1, "the current day must not be touched")
	})

	t.Run("empty day archives nothing", func(t *testing.T) {
		repo := memory.NewAttendanceRepository()
		history := memory.NewHistoryRepository()
		svc := archivesvc.NewArchiveService(repo, history, nil, nil)

		result, err := svc.Run(ctx, yesterday)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ArchivedCount)
	})

	t.Run("partial failure keeps failed sources live", func(t *testing.T) {
		repo := memory.NewAttendanceRepository()
		history := memory.NewHistoryRepository()
		history.FailFor = map[string]error{"EMP-002": errors.New("history insert refused")}
		svc := archivesvc.NewArchiveService(repo, history, nil, nil)

		seedLiveDay(t, repo, "EMP-001", yesterday, attendance.StatusOut, 8)
		failing := seedLiveDay(t, repo, "EMP-002", yesterday, attendance.StatusOut, 6)

		result, err := svc.Run(ctx, yesterday)
		assert.ErrorIs(t, err, archive.ErrPartialFailure)

		assert.Equal(t, 1, result.ArchivedCount)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, "EMP-002", result.Failures[0].EmployeeID)
		assert.Equal(t, failing.ID, result.Failures[0].RecordID)

		remaining, err := repo.ListByDate(ctx, yesterday)
		require.NoError(t, err)
		require.Len(t, remaining, 1, "the failed source must stay live for a retry run")
		assert.Equal(t, "EMP-002", remaining[0].EmployeeID)
	})

	t.Run("rerun after a partial failure archives the remainder", func(t *testing.T) {
		repo := memory.NewAttendanceRepository()
		history := memory.NewHistoryRepository()
		history.FailFor = map[string]error{"EMP-002": errors.New("history insert refused")}
		svc := archivesvc.NewArchiveService(repo, history, nil, nil)

		seedLiveDay(t, repo, "EMP-001", yesterday, attendance.StatusOut, 8)
		seedLiveDay(t, repo, "EMP-002", yesterday, attendance.StatusOut, 6)

		_, err := svc.Run(ctx, yesterday)
		assert.ErrorIs(t, err, archive.ErrPartialFailure)

		history.FailFor = nil
		result, err := svc.Run(ctx, yesterday)
		require.NoError(t, err)
		assert.Equal(t, 1, result.ArchivedCount)

		remaining, err := repo.ListByDate(ctx, yesterday)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		archived, err := history.ListByRange(ctx, yesterday, yesterday)
		require.NoError(t, err)
		assert.Len(t, archived, 2)
	})
}
