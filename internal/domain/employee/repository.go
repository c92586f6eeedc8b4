package employee

import "context"

// Directory exposes the employee roster maintained by the user-management
// system. The attendance core only ever reads from it.
type Directory interface {
	// FindByID retrieves an employee by their employee ID
	FindByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves all active employees
	ListActive(ctx context.Context) ([]Employee, error)
}
