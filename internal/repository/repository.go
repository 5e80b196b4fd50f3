package repository

import (
	"context"
	"errors"

	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/models"
)

// ErrEmployeeNotFound is returned by Save when an update targets an id that has no row.
var ErrEmployeeNotFound = errors.New("employee not found")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	Save(ctx context.Context, employee models.Employee) (models.Employee, error)
	FindAll(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, identifier int64) (models.Employee, bool, error)
	FindByEmail(ctx context.Context, email string) (models.Employee, bool, error)
	FindByFullName(ctx context.Context, firstName, lastName string) (models.Employee, bool, error)
	DeleteByID(ctx context.Context, identifier int64) error
}

func NewEmployeeRepository(db Database, m *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: m}
}
