package events

import "time"

const (
	EmployeeLifecycleTopic = "workzen.employee.lifecycle.v1"

	EventTypeEmployeeCreated = "employee.created"
)

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
