package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated     EventType = "employee_created"
	EventEmployeeReplaced    EventType = "employee_replaced"
	EventCompensationCreated EventType = "compensation_created"
)

// Event represents a directory change emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID string      `json:"employee_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EmployeeChangedPayload is attached to employee create and replace events.
type EmployeeChangedPayload struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Position      string   `json:"position"`
	Department    string   `json:"department"`
	DirectReports []string `json:"direct_reports"`
}

// CompensationCreatedPayload payload.
type CompensationCreatedPayload struct {
	CompensationID string          `json:"compensation_id"`
	Salary         decimal.Decimal `json:"salary"`
	EffectiveDate  time.Time       `json:"effective_date"`
}
