package attendance

import (
	"context"
	"time"
)

// Service defines business logic for attendance operations
type Service interface {
	// CheckIn opens (or reopens) today's session for an employee
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)

	// CheckOut closes the open session and accumulates working hours
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)

	// GetTodayAttendance retrieves all live records for the current day
	GetTodayAttendance(ctx context.Context) (TodayAttendanceResponse, error)

	// GetAttendanceHistory retrieves archived records for an employee and month
	GetAttendanceHistory(ctx context.Context, req HistoryRequest) ([]HistoryResponse, error)

	// GetAttendanceStats summarizes today's presence across the active roster
	GetAttendanceStats(ctx context.Context, at time.Time) (StatsResponse, error)
}
