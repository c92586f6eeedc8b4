package attendance

import (
	"time"
)

// Session status of a live record.
const (
	StatusIn  = "in"
	StatusOut = "out"
)

// Archival status of a history record.
const (
	HistoryPresent = "Present"
	HistoryAbsent  = "Absent"
	HistoryLeave   = "Leave"
)

// Record is the live attendance row, one per (employee, calendar day).
// CheckinTime is the first check-in of the day and never changes afterwards;
// CurrentCheckinTime tracks the most recent check-in and is the basis for the
// in-progress session. WorkingHours only grows, and only at check-out.
type Record struct {
	ID                 string
	EmployeeID         string
	EmployeeName       string
	Email              string
	Date               time.Time
	CheckinTime        time.Time
	CurrentCheckinTime time.Time
	CheckoutTime       *time.Time
	Status             string
	WorkingHours       float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Open reports whether the record has an unclosed session.
func (r Record) Open() bool {
	return r.Status == StatusIn
}

// HistoryRecord is an archived attendance row. It is append-only: the archiver
// writes it once and nothing mutates it afterwards.
type HistoryRecord struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Email        string
	Date         time.Time
	CheckinTime  *time.Time
	CheckoutTime *time.Time
	Status       string
	WorkingHours float64
	CreatedAt    time.Time
}
