package archive

import (
	"context"
	"time"
)

// Service moves a fully elapsed day of live attendance into history.
// The write-then-delete pair is not atomic across records: the policy is
// at-least-once, and readers tolerate duplicate history rows by deduplicating
// on (employee, date).
type Service interface {
	// Run archives all live records whose date equals forDate. Sources whose
	// history write failed are kept live and itemized in the result alongside
	// ErrPartialFailure.
	Run(ctx context.Context, forDate time.Time) (Result, error)
}
