package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/employee-directory/internal/domain"
	apperrors "github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Salary limits match the compensations.salary NUMERIC(14, 2) column, so every
// backend stores exactly the amount it was given.
const salaryScale = 2

var maxSalary = decimal.New(1, 12)

type employeeFields struct {
	FirstName     string   `validate:"max=200"`
	LastName      string   `validate:"max=200"`
	Position      string   `validate:"max=200"`
	Department    string   `validate:"max=200"`
	DirectReports []string `validate:"unique,dive,required"`
}

type compensationFields struct {
	EmployeeID string `validate:"required"`
}

// normalizeEmployee trims free-text fields in place.
func normalizeEmployee(emp *domain.Employee) {
	emp.FirstName = strings.TrimSpace(emp.FirstName)
	emp.LastName = strings.TrimSpace(emp.LastName)
	emp.Position = strings.TrimSpace(emp.Position)
	emp.Department = strings.TrimSpace(emp.Department)
	for i, id := range emp.DirectReports {
		emp.DirectReports[i] = strings.TrimSpace(id)
	}
}

// validateEmployee checks field limits and the direct-report rules: no
// duplicates, no empty ids and no reference to selfID.
func validateEmployee(emp *domain.Employee, selfID string) error {
	err := validate.Struct(employeeFields{
		FirstName:     emp.FirstName,
		LastName:      emp.LastName,
		Position:      emp.Position,
		Department:    emp.Department,
		DirectReports: emp.DirectReports,
	})
	if err != nil {
		return validationFailure("invalid employee", err)
	}
	if selfID == "" {
		return nil
	}
	for _, id := range emp.DirectReports {
		if id == selfID {
			return apperrors.NewValidationError("employee cannot report to itself", map[string]any{
				"directReports": selfID,
			})
		}
	}
	return nil
}

func validateCompensation(comp *domain.Compensation) error {
	if err := validate.Struct(compensationFields{EmployeeID: comp.EmployeeID}); err != nil {
		return validationFailure("invalid compensation", err)
	}
	if comp.Salary.IsNegative() {
		return apperrors.NewValidationError("invalid compensation", map[string]any{"salary": "must not be negative"})
	}
	if comp.Salary.Cmp(maxSalary) >= 0 {
		return apperrors.NewValidationError("invalid compensation", map[string]any{"salary": "must be less than " + maxSalary.String()})
	}
	if !comp.Salary.Equal(comp.Salary.Round(salaryScale)) {
		return apperrors.NewValidationError("invalid compensation", map[string]any{"salary": "at most 2 decimal places"})
	}
	if comp.EffectiveDate.IsZero() {
		return apperrors.NewValidationError("invalid compensation", map[string]any{"effectiveDate": "required"})
	}
	return nil
}

var fieldNames = map[string]string{
	"FirstName":     "firstName",
	"LastName":      "lastName",
	"Position":      "position",
	"Department":    "department",
	"DirectReports": "directReports",
	"EmployeeID":    "employee.employeeId",
}

// validationFailure converts validator output into a VALIDATION_FAILED error
// whose details map wire field names to the failed rule.
func validationFailure(message string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(message, map[string]any{"reason": err.Error()})
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		field := fe.StructField()
		if name, ok := fieldNames[field]; ok {
			field = name
		}
		// dive errors carry an index, e.g. DirectReports[2]
		if strings.HasPrefix(fe.Field(), "DirectReports[") {
			field = "directReports" + strings.TrimPrefix(fe.Field(), "DirectReports")
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[field] = rule
	}
	return apperrors.NewValidationError(message, details)
}
