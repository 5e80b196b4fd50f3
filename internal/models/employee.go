package models

import (
	"errors"
	"fmt"
)

// ErrDuplicateEmail is matched by every DuplicateEmailError via errors.Is.
var ErrDuplicateEmail = errors.New("employee with same email already exists")

// Employee represents an employee entity.
type Employee struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// DuplicateEmailError is returned when an employee is saved with an email
// that already belongs to another employee.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateEmail.Error(), e.Email)
}

func (e *DuplicateEmailError) Is(target error) bool {
	return target == ErrDuplicateEmail
}

// EmployeeBuilder assembles an Employee field by field.
type EmployeeBuilder struct {
	employee Employee
}

// NewEmployee starts a new EmployeeBuilder.
func NewEmployee() *EmployeeBuilder {
	return &EmployeeBuilder{}
}

func (b *EmployeeBuilder) WithID(id int64) *EmployeeBuilder {
	b.employee.ID = id
	return b
}

func (b *EmployeeBuilder) WithFirstName(firstName string) *EmployeeBuilder {
	b.employee.FirstName = firstName
	return b
}

func (b *EmployeeBuilder) WithLastName(lastName string) *EmployeeBuilder {
	b.employee.LastName = lastName
	return b
}

func (b *EmployeeBuilder) WithEmail(email string) *EmployeeBuilder {
	b.employee.Email = email
	return b
}

// Build returns a copy of the assembled Employee.
func (b *EmployeeBuilder) Build() Employee {
	return b.employee
}
