// Package seed loads the bundled sample organization into an empty directory.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/repository"
)

//go:embed sample_org.json
var sampleOrg []byte

// SampleEmployees decodes the bundled organization.
func SampleEmployees() ([]domain.Employee, error) {
	var rows []dto.EmployeeRequest
	if err := json.Unmarshal(sampleOrg, &rows); err != nil {
		return nil, fmt.Errorf("decode sample organization: %w", err)
	}
	employees := make([]domain.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, *row.ToDomain())
	}
	return employees, nil
}

// Seeder imports the sample organization through the employee repository.
type Seeder struct {
	employees repository.EmployeeRepository
	logger    *zap.Logger
}

// NewSeeder builds a seeder.
func NewSeeder(employees repository.EmployeeRepository, logger *zap.Logger) *Seeder {
	return &Seeder{employees: employees, logger: logger}
}

// Seed stores the sample employees under their fixed identifiers. Existing
// records with the same identifiers are overwritten.
func (s *Seeder) Seed(ctx context.Context) error {
	employees, err := SampleEmployees()
	if err != nil {
		return err
	}
	if err := s.employees.Import(ctx, employees); err != nil {
		return fmt.Errorf("import sample organization: %w", err)
	}
	s.logger.Info("sample organization seeded", zap.Int("employees", len(employees)))
	return nil
}
