package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/employee-directory/internal/domain"
)

type employeeRepository struct {
	db DB
}

// NewEmployeeRepository instantiates the postgres-backed repository.
func NewEmployeeRepository(db DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, first_name, last_name, position, department, direct_reports, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, first_name, last_name, position, department, direct_reports)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`

	emp.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, query,
		emp.ID,
		emp.FirstName,
		emp.LastName,
		emp.Position,
		emp.Department,
		directReportsParam(emp.DirectReports),
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) Replace(ctx context.Context, id string, emp *domain.Employee) error {
	const query = `
        UPDATE employees
        SET first_name=$1, last_name=$2, position=$3, department=$4, direct_reports=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		emp.FirstName,
		emp.LastName,
		emp.Position,
		emp.Department,
		directReportsParam(emp.DirectReports),
		id,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("replace employee %s: %w", id, err)
	}
	emp.ID = id
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`

	emp, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	return emp, nil
}

func (r *employeeRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Employee, error) {
	result := make(map[string]*domain.Employee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result[emp.ID] = emp
	}
	return result, rows.Err()
}

func (r *employeeRepository) Import(ctx context.Context, employees []domain.Employee) error {
	const query = `
        INSERT INTO employees (id, first_name, last_name, position, department, direct_reports)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE
        SET first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name, position=EXCLUDED.position,
            department=EXCLUDED.department, direct_reports=EXCLUDED.direct_reports, updated_at=NOW()`

	for i := range employees {
		if employees[i].ID == "" {
			return fmt.Errorf("import employee %d: missing id", i)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	for i := range employees {
		emp := &employees[i]
		if _, err := tx.Exec(ctx, query,
			emp.ID,
			emp.FirstName,
			emp.LastName,
			emp.Position,
			emp.Department,
			directReportsParam(emp.DirectReports),
		); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("import employee %s: %w", emp.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.FirstName,
		&emp.LastName,
		&emp.Position,
		&emp.Department,
		&emp.DirectReports,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

// directReportsParam keeps the column NOT NULL for employees without reports.
func directReportsParam(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
