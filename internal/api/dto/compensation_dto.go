package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/employee-directory/internal/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp decodes RFC 3339 values as well as zone-less date-times and plain
// dates, which are read as UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// CompensationRequest is the body of a create compensation request.
type CompensationRequest struct {
	CompensationID string           `json:"compensationId"`
	Employee       *EmployeeRef     `json:"employee"`
	Salary         *decimal.Decimal `json:"salary"`
	EffectiveDate  *Timestamp       `json:"effectiveDate"`
}

// ToDomain maps the request onto a domain compensation. Absent fields stay zero.
func (r CompensationRequest) ToDomain() *domain.Compensation {
	comp := &domain.Compensation{ID: r.CompensationID}
	if r.Employee != nil {
		comp.EmployeeID = strings.TrimSpace(r.Employee.EmployeeID)
	}
	if r.Salary != nil {
		comp.Salary = *r.Salary
	}
	if r.EffectiveDate != nil {
		comp.EffectiveDate = r.EffectiveDate.Time
	}
	return comp
}

// CompensationResponse is the wire form of a compensation.
type CompensationResponse struct {
	CompensationID string           `json:"compensationId"`
	Employee       EmployeeResponse `json:"employee"`
	Salary         json.Number      `json:"salary"`
	EffectiveDate  time.Time        `json:"effectiveDate"`
}

// NewCompensationResponse maps a hydrated domain compensation to its wire form.
func NewCompensationResponse(comp *domain.Compensation) CompensationResponse {
	resp := CompensationResponse{
		CompensationID: comp.ID,
		Salary:         json.Number(comp.Salary.String()),
		EffectiveDate:  comp.EffectiveDate,
	}
	if comp.Employee != nil {
		resp.Employee = NewEmployeeResponse(comp.Employee)
	} else {
		resp.Employee = EmployeeResponse{EmployeeID: comp.EmployeeID, DirectReports: []EmployeeRef{}}
	}
	return resp
}
