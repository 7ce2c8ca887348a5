package attendance

type CheckInRequest struct {
	Notes *string `json:"notes"`
}

type CheckOutRequest struct {
	Notes *string `json:"notes"`
}

// MarkRequest lets HR record the status of a single day for an employee.
type MarkRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	Status     string  `json:"status" binding:"required,oneof=PRESENT ABSENT LEAVE HOLIDAY"`
	Notes      *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	CheckIn        *string `json:"check_in,omitempty"`
	CheckOut       *string `json:"check_out,omitempty"`
	WorkedHours    float64 `json:"worked_hours"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	MarkedBy       *string `json:"marked_by,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}
