package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/worktally/attendance-backend-go/internal/domain/employee"
	"github.com/worktally/attendance-backend-go/internal/pkg/database"
)

type employeeDirectory struct {
	db *database.DB
}

const employeeColumns = `
	id, name, email, hourly_rate, active, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.HourlyRate,
		&emp.Active, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// FindByID implements employee.Directory.
func (e *employeeDirectory) FindByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1
		LIMIT 1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, database.TransientError{Err: fmt.Errorf("failed to get employee: %w", err)}
	}

	return emp, nil
}

// ListActive implements employee.Directory.
func (e *employeeDirectory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE active = TRUE
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, database.TransientError{Err: fmt.Errorf("failed to query employees: %w", err)}
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

func NewEmployeeDirectory(db *database.DB) employee.Directory {
	return &employeeDirectory{db: db}
}
