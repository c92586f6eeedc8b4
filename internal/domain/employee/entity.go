package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is read-only reference data owned by the user-management system.
type Employee struct {
	ID         string
	Name       string
	Email      string
	HourlyRate decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
