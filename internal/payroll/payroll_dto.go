package payroll

import "github.com/shopspring/decimal"

// Payroll payloads keep the camelCase field names the payslip screens consume.

type MarkDoneRequest struct {
	EmployeeID string `json:"employeeId" binding:"required,uuid"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	Year       int    `json:"year" binding:"required,min=1900,max=9999"`
}

type MarkDoneBatchRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
	// Empty means every active employee of the company.
	EmployeeIDs []string `json:"employeeIds" binding:"omitempty,dive,uuid"`
}

type PeriodQuery struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=1900,max=9999"`
}

type ListPayrollsQuery struct {
	Month    int    `form:"month" binding:"required,min=1,max=12"`
	Year     int    `form:"year" binding:"required,min=1900,max=9999"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT DONE PAID"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type YearQuery struct {
	Year int `form:"year" binding:"required,min=1900,max=9999"`
}

type DashboardQuery struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=1900,max=9999"`
}

type EmployeeSnapshotResponse struct {
	EmployeeID        string `json:"employeeId"`
	EmployeeNumber    string `json:"employeeNumber"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Department        string `json:"department"`
	Designation       string `json:"designation"`
	Location          string `json:"location"`
	JoiningDate       string `json:"joiningDate,omitempty"`
	PAN               string `json:"pan"`
	UAN               string `json:"uan"`
	BankAccountNumber string `json:"bankAccountNumber"`
	BankName          string `json:"bankName"`
	IFSCCode          string `json:"ifscCode"`
}

const (
	SourceStored  = "stored"
	SourcePreview = "preview"
)

type PayslipDetailResponse struct {
	PayrollID     string                   `json:"payrollId,omitempty"`
	PayrunID      string                   `json:"payrunId,omitempty"`
	Source        string                   `json:"source"`
	Status        string                   `json:"status"`
	Month         int                      `json:"month"`
	Year          int                      `json:"year"`
	Period        string                   `json:"period"`
	Employee      EmployeeSnapshotResponse `json:"employeeSnapshot"`
	WorkedDays    WorkedDays               `json:"workedDays"`
	MonthlySalary decimal.Decimal          `json:"monthlySalary"`
	Breakdown
	MarkedDoneAt *string `json:"markedDoneAt,omitempty"`
	PaidAt       *string `json:"paidAt,omitempty"`
	PayslipPath  *string `json:"payslipPath,omitempty"`
}

type PayrollSummaryResponse struct {
	ID              string          `json:"id"`
	PayrunID        string          `json:"payrunId"`
	EmployeeID      string          `json:"employeeId"`
	EmployeeNumber  string          `json:"employeeNumber"`
	FullName        string          `json:"fullName"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	Status          string          `json:"status"`
	WorkedDays      int             `json:"totalWorkedDays"`
	EmployerCost    decimal.Decimal `json:"employerCost"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	PaidAt          *string         `json:"paidAt,omitempty"`
}

type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MarkDoneBatchResult struct {
	EmployeeID string           `json:"employeeId"`
	Ok         bool             `json:"ok"`
	PayrollID  string           `json:"payrollId,omitempty"`
	NetAmount  *decimal.Decimal `json:"netAmount,omitempty"`
	Error      *BatchError      `json:"error,omitempty"`
}

type MarkDoneBatchResponse struct {
	Period    string                `json:"period"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Results   []MarkDoneBatchResult `json:"results"`
}

type StatementMonth struct {
	Month           int             `json:"month"`
	Period          string          `json:"period"`
	HasData         bool            `json:"hasData"`
	Status          string          `json:"status,omitempty"`
	WorkedDays      int             `json:"totalWorkedDays"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetAmount       decimal.Decimal `json:"netAmount"`
}

type StatementTotals struct {
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	MonthsWithData  int             `json:"monthsWithData"`
}

type YearlyStatementResponse struct {
	EmployeeID string                   `json:"employeeId"`
	Year       int                      `json:"year"`
	Employee   EmployeeSnapshotResponse `json:"employee"`
	Months     []StatementMonth         `json:"months"`
	Totals     StatementTotals          `json:"totals"`
}

type DashboardMonth struct {
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Period        string          `json:"period"`
	PayrunID      string          `json:"payrunId,omitempty"`
	PayrunStatus  string          `json:"payrunStatus,omitempty"`
	EmployerCost  decimal.Decimal `json:"employerCost"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	EmployeeCount int64           `json:"employeeCount"`
}

type DashboardResponse struct {
	Anchor      string               `json:"anchor"`
	Months      []DashboardMonth     `json:"months"`
	Warnings    []BankDetailsWarning `json:"warnings"`
	GeneratedAt string               `json:"generatedAt"`
}
