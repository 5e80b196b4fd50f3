package employees

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Houeta/employee-api/internal/lib/logger/sl"
	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/models"
	"github.com/Houeta/employee-api/internal/repository"
)

// Service is the employee use case consumed by the HTTP layer.
type Service interface {
	SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	GetAllEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployeeByID(ctx context.Context, identifier int64) (models.Employee, bool, error)
	UpdateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	DeleteEmployeeByID(ctx context.Context, identifier int64) error
}

var _ Service = (*Staff)(nil)

type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, m *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: m}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

// SaveEmployee stores a new employee unless another employee already uses the same email.
func (s *Staff) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	const opn = "Employee.SaveEmployee"
	log := s.initLogger(opn)

	_, found, err := s.repo.FindByEmail(ctx, employee.Email)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if found {
		log.InfoContext(ctx, "Employee with same email already exists, rejected", "email", employee.Email)
		s.countDuplicate()
		return models.Employee{}, &models.DuplicateEmailError{Email: employee.Email}
	}

	saved, err := s.repo.Save(ctx, employee)
	if err != nil {
		log.ErrorContext(ctx, "Failed to save employee", sl.Err(err))
		return models.Employee{}, err
	}

	log.DebugContext(ctx, "Employee saved", "id", saved.ID)
	if s.metrics != nil {
		s.metrics.EmployeesCreated.Inc()
	}

	return saved, nil
}

// GetAllEmployees returns every stored employee.
func (s *Staff) GetAllEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.repo.FindAll(ctx)
}

// GetEmployeeByID returns the employee with the given id, ok is false when there is none.
func (s *Staff) GetEmployeeByID(ctx context.Context, identifier int64) (models.Employee, bool, error) {
	return s.repo.FindByID(ctx, identifier)
}

// UpdateEmployee persists an already merged employee. The caller must pass an existing id.
func (s *Staff) UpdateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	return s.repo.Save(ctx, employee)
}

// DeleteEmployeeByID removes the employee. A missing employee is not reported.
func (s *Staff) DeleteEmployeeByID(ctx context.Context, identifier int64) error {
	return s.repo.DeleteByID(ctx, identifier)
}

func (s *Staff) countDuplicate() {
	if s.metrics != nil {
		s.metrics.DuplicateEmails.Inc()
	}
}
