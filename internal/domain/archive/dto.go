package archive

// Failure records a single source row the archiver could not move.
type Failure struct {
	EmployeeID string `json:"employee_id"`
	RecordID   string `json:"record_id"`
	Err        string `json:"error"`
}

// Result summarizes one archive run.
type Result struct {
	RunID         string    `json:"run_id"`
	Date          string    `json:"date"`
	ArchivedCount int       `json:"archived_count"`
	Failures      []Failure `json:"failures,omitempty"`
}
