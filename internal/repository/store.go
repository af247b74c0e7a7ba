package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/employee-directory/internal/domain"
)

// ErrNotFound is returned when an identifier does not resolve to a stored record.
var ErrNotFound = errors.New("record not found")

// DB is the subset of *pgxpool.Pool the postgres repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	// Create assigns a fresh identifier to emp, ignoring any it carries, and stores it.
	Create(ctx context.Context, emp *domain.Employee) error
	// Replace overwrites the mutable fields of the employee stored under id.
	Replace(ctx context.Context, id string, emp *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	// GetByIDs returns the employees that exist among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Employee, error)
	// Import stores employees with their identifiers as given.
	Import(ctx context.Context, employees []domain.Employee) error
}

// CompensationRepository manages compensation persistence.
type CompensationRepository interface {
	// Create assigns a fresh identifier and stores comp. It returns ErrNotFound
	// when comp.EmployeeID does not reference a stored employee.
	Create(ctx context.Context, comp *domain.Compensation) error
	// GetCurrentByEmployeeID returns the compensation with the latest effective
	// date for the employee, preferring the most recent record on ties.
	GetCurrentByEmployeeID(ctx context.Context, employeeID string) (*domain.Compensation, error)
}
