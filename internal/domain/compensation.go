package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Compensation is a salary record attached to a single employee.
type Compensation struct {
	ID            string
	EmployeeID    string
	Salary        decimal.Decimal
	EffectiveDate time.Time
	CreatedAt     time.Time

	// Employee is hydrated by the service for responses; stores never persist it.
	Employee *Employee
}

// Supersedes reports whether c, recorded after prev, replaces prev as the
// employee's current compensation. A later effective date wins; on a tie the
// later record wins.
func (c *Compensation) Supersedes(prev *Compensation) bool {
	if prev == nil {
		return true
	}
	return !c.EffectiveDate.Before(prev.EffectiveDate)
}

// Clone returns a copy that shares no memory with c.
func (c *Compensation) Clone() *Compensation {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Employee = c.Employee.Clone()
	return &cp
}
