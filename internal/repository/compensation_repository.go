package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/employee-directory/internal/domain"
)

const pgForeignKeyViolation = "23503"

type compensationRepository struct {
	db DB
}

// NewCompensationRepository builds the postgres-backed repository.
func NewCompensationRepository(db DB) CompensationRepository {
	return &compensationRepository{db: db}
}

func (r *compensationRepository) Create(ctx context.Context, comp *domain.Compensation) error {
	const query = `
        INSERT INTO compensations (id, employee_id, salary, effective_date)
        VALUES ($1,$2,$3::numeric,$4)
        RETURNING created_at`

	id := uuid.NewString()
	err := r.db.QueryRow(ctx, query,
		id,
		comp.EmployeeID,
		comp.Salary.String(),
		comp.EffectiveDate,
	).Scan(&comp.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrNotFound
		}
		return fmt.Errorf("create compensation: %w", err)
	}
	comp.ID = id
	return nil
}

func (r *compensationRepository) GetCurrentByEmployeeID(ctx context.Context, employeeID string) (*domain.Compensation, error) {
	const query = `
        SELECT id, employee_id, salary::text, effective_date, created_at
        FROM compensations
        WHERE employee_id=$1
        ORDER BY effective_date DESC, created_at DESC, seq DESC
        LIMIT 1`

	var (
		comp   domain.Compensation
		salary string
	)
	err := r.db.QueryRow(ctx, query, employeeID).Scan(
		&comp.ID,
		&comp.EmployeeID,
		&salary,
		&comp.EffectiveDate,
		&comp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get compensation for %s: %w", employeeID, err)
	}
	comp.Salary, err = decimal.NewFromString(salary)
	if err != nil {
		return nil, fmt.Errorf("parse salary %q: %w", salary, err)
	}
	return &comp, nil
}
