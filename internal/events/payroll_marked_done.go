package events

import "time"

const (
	PayrollMarkedDoneTopic = "workzen.payroll.marked_done.v1"

	EventTypePayrollMarkedDone = "payroll.marked_done"
)

// PayrollMarkedDoneEvent is emitted in the same transaction that stores a computed payroll.
type PayrollMarkedDoneEvent struct {
	EventType  string    `json:"event_type"`
	PayrollID  string    `json:"payroll_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	NetPay     string    `json:"net_pay"`
	MarkedBy   string    `json:"marked_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
