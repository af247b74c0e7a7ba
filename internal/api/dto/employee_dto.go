package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/employee-directory/internal/domain"
)

// EmployeeRef references another employee by identifier. It decodes from
// either {"employeeId": "..."} or a bare string.
type EmployeeRef struct {
	EmployeeID string `json:"employeeId"`
}

// UnmarshalJSON accepts both reference encodings.
func (r *EmployeeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.EmployeeID)
	}
	var obj struct {
		EmployeeID string `json:"employeeId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("employee reference: %w", err)
	}
	r.EmployeeID = obj.EmployeeID
	return nil
}

// EmployeeRequest is the body of create and replace requests.
type EmployeeRequest struct {
	EmployeeID    string        `json:"employeeId"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Position      string        `json:"position"`
	Department    string        `json:"department"`
	DirectReports []EmployeeRef `json:"directReports"`
}

// ToDomain maps the request onto a domain employee.
func (r EmployeeRequest) ToDomain() *domain.Employee {
	emp := &domain.Employee{
		ID:         r.EmployeeID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Position:   r.Position,
		Department: r.Department,
	}
	if len(r.DirectReports) > 0 {
		emp.DirectReports = make([]string, 0, len(r.DirectReports))
		for _, ref := range r.DirectReports {
			emp.DirectReports = append(emp.DirectReports, ref.EmployeeID)
		}
	}
	return emp
}

// EmployeeResponse is the wire form of an employee.
type EmployeeResponse struct {
	EmployeeID    string        `json:"employeeId"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Position      string        `json:"position"`
	Department    string        `json:"department"`
	DirectReports []EmployeeRef `json:"directReports"`
}

// NewEmployeeResponse maps a domain employee to its wire form.
func NewEmployeeResponse(emp *domain.Employee) EmployeeResponse {
	refs := make([]EmployeeRef, 0, len(emp.DirectReports))
	for _, id := range emp.DirectReports {
		refs = append(refs, EmployeeRef{EmployeeID: id})
	}
	return EmployeeResponse{
		EmployeeID:    emp.ID,
		FirstName:     emp.FirstName,
		LastName:      emp.LastName,
		Position:      emp.Position,
		Department:    emp.Department,
		DirectReports: refs,
	}
}

// ReportingStructureResponse is the wire form of a reporting structure.
type ReportingStructureResponse struct {
	Employee        EmployeeResponse `json:"employee"`
	NumberOfReports int              `json:"numberOfReports"`
}

// NewReportingStructureResponse maps the resolver result to its wire form.
func NewReportingStructureResponse(rs *domain.ReportingStructure) ReportingStructureResponse {
	return ReportingStructureResponse{
		Employee:        NewEmployeeResponse(rs.Employee),
		NumberOfReports: rs.NumberOfReports,
	}
}
