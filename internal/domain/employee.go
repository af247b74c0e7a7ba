package domain

import "time"

// Employee models a person in the directory along with the ids of the people
// who report to them directly.
type Employee struct {
	ID            string
	FirstName     string
	LastName      string
	Position      string
	Department    string
	DirectReports []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a copy that shares no memory with e.
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	cp := *e
	if e.DirectReports != nil {
		cp.DirectReports = append([]string(nil), e.DirectReports...)
	}
	return &cp
}

// ReportingStructure is the derived view returned by the hierarchy resolver.
type ReportingStructure struct {
	Employee        *Employee
	NumberOfReports int
}
