package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/worktally/attendance-backend-go/internal/domain/employee"
)

// EmployeeDirectory is an in-memory employee.Directory, used by tests and
// local development. The roster is fixed at construction.
type EmployeeDirectory struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeDirectory(roster ...employee.Employee) *EmployeeDirectory {
	d := &EmployeeDirectory{
		employees: make(map[string]employee.Employee),
	}
	for _, emp := range roster {
		d.employees[emp.ID] = emp
	}
	return d
}

// FindByID implements employee.Directory.
func (d *EmployeeDirectory) FindByID(_ context.Context, id string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	emp, ok := d.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// ListActive implements employee.Directory.
func (d *EmployeeDirectory) ListActive(_ context.Context) ([]employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var active []employee.Employee
	for _, emp := range d.employees {
		if emp.Active {
			active = append(active, emp)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}
