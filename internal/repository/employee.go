package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/employee-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	employeeEmailConstraint = "employees_email_key"
)

const (
	insertEmployeeQuery = `
		INSERT INTO employees (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, first_name, last_name, email;
	`
	updateEmployeeQuery = `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4
		WHERE id = $1
		RETURNING id, first_name, last_name, email;
	`
	findAllEmployeesQuery       = `SELECT id, first_name, last_name, email FROM employees ORDER BY id`
	findEmployeeByIDQuery       = `SELECT id, first_name, last_name, email FROM employees WHERE id = $1`
	findEmployeeByEmailQuery    = `SELECT id, first_name, last_name, email FROM employees WHERE email = $1`
	findEmployeeByFullNameQuery = `
		SELECT id, first_name, last_name, email
		FROM employees
		WHERE first_name = $1 AND last_name = $2
		ORDER BY id
		LIMIT 1
	`
	deleteEmployeeByIDQuery = `DELETE FROM employees WHERE id = $1`
)

func (r *Repository) observe(queryType string, startTime time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

// Save inserts the employee when it has no identifier yet, otherwise it updates the row
// with the same identifier. It returns the persisted record, including the generated id.
func (r *Repository) Save(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if employee.ID == 0 {
		return r.insert(ctx, employee)
	}

	return r.update(ctx, employee)
}

func (r *Repository) insert(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("insert_employee", time.Now())

	saved, err := scanEmployee(
		r.db.QueryRow(ctx, insertEmployeeQuery, employee.FirstName, employee.LastName, employee.Email))
	if err != nil {
		return models.Employee{}, translateSaveError(employee, fmt.Errorf("failed to save employee: %w", err))
	}

	return saved, nil
}

func (r *Repository) update(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("update_employee", time.Now())

	updated, err := scanEmployee(r.db.QueryRow(ctx, updateEmployeeQuery,
		employee.ID, employee.FirstName, employee.LastName, employee.Email))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, fmt.Errorf("failed to update employee %d: %w", employee.ID, ErrEmployeeNotFound)
	}
	if err != nil {
		return models.Employee{}, translateSaveError(employee, fmt.Errorf("failed to update employee data: %w", err))
	}

	return updated, nil
}

// FindAll returns every employee ordered by identifier.
func (r *Repository) FindAll(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("find_all_employees", time.Now())

	rows, err := r.db.Query(ctx, findAllEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", scanErr)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// FindByID retrieves an employee from the database by their ID.
func (r *Repository) FindByID(ctx context.Context, identifier int64) (models.Employee, bool, error) {
	defer r.observe("find_employee_by_id", time.Now())

	return findOne(r.db.QueryRow(ctx, findEmployeeByIDQuery, identifier), "failed to get employee by id")
}

// FindByEmail retrieves an employee from the database by their email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (models.Employee, bool, error) {
	defer r.observe("find_employee_by_email", time.Now())

	return findOne(r.db.QueryRow(ctx, findEmployeeByEmailQuery, email), "failed to get employee by email")
}

// FindByFullName retrieves an employee whose first and last name both match exactly.
func (r *Repository) FindByFullName(ctx context.Context, firstName, lastName string) (models.Employee, bool, error) {
	defer r.observe("find_employee_by_full_name", time.Now())

	return findOne(
		r.db.QueryRow(ctx, findEmployeeByFullNameQuery, firstName, lastName), "failed to get employee by full name")
}

// DeleteByID removes the employee with the given ID. Deleting a missing employee is not an error.
func (r *Repository) DeleteByID(ctx context.Context, identifier int64) error {
	defer r.observe("delete_employee", time.Now())

	if _, err := r.db.Exec(ctx, deleteEmployeeByIDQuery, identifier); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	return nil
}

func findOne(row pgx.Row, errMsg string) (models.Employee, bool, error) {
	employee, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, false, nil
	}
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("%s: %w", errMsg, err)
	}

	return employee, true, nil
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var result models.Employee

	err := row.Scan(&result.ID, &result.FirstName, &result.LastName, &result.Email)
	if err != nil {
		return models.Employee{}, err
	}

	return result, nil
}

// translateSaveError maps a unique violation on the email column to a DuplicateEmailError.
func translateSaveError(employee models.Employee, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == employeeEmailConstraint {
		return &models.DuplicateEmailError{Email: employee.Email}
	}

	return err
}
