package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft = "DRAFT"
	StatusDone  = "DONE"
	StatusPaid  = "PAID"
)

// Payroll is one computed salary per (company, employee, month, year).
type Payroll struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:1;index:idx_payroll_company_period,priority:1"`
	PayrunID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:2"`
	Month      int       `gorm:"not null;uniqueIndex:uq_payroll_employee_period,priority:3;index:idx_payroll_company_period,priority:3"`
	Year       int       `gorm:"not null;uniqueIndex:uq_payroll_employee_period,priority:4;index:idx_payroll_company_period,priority:2"`

	WorkingDays    int `gorm:"not null;default:0"`
	AttendanceDays int `gorm:"not null;default:0"`
	PaidLeaveDays  int `gorm:"not null;default:0"`
	WorkedDays     int `gorm:"not null;default:0"`

	MonthlySalary   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	EmployerCost    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	GrossAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NetAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	Status   string           `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Snapshot EmployeeSnapshot `gorm:"embedded;embeddedPrefix:snapshot_"`

	MarkedDoneBy *uuid.UUID `gorm:"type:uuid"`
	MarkedDoneAt *time.Time
	PaidBy       *uuid.UUID `gorm:"type:uuid"`
	PaidAt       *time.Time

	PayslipPath        *string `gorm:"type:varchar(255)"`
	PayslipGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Components []PayrollComponent `gorm:"foreignKey:PayrollID"`
}

// EmployeeSnapshot freezes the employee and bank details used when the payroll was marked done.
type EmployeeSnapshot struct {
	EmployeeNumber    string    `gorm:"type:varchar(20)"`
	FullName          string    `gorm:"type:varchar(150)"`
	Email             string    `gorm:"type:varchar(150)"`
	Department        string    `gorm:"type:varchar(100)"`
	Designation       string    `gorm:"type:varchar(100)"`
	Location          string    `gorm:"type:varchar(100)"`
	JoiningDate       time.Time `gorm:"type:date"`
	PAN               string    `gorm:"type:varchar(20)"`
	UAN               string    `gorm:"type:varchar(20)"`
	BankAccountNumber string    `gorm:"type:varchar(40)"`
	BankName          string    `gorm:"type:varchar(100)"`
	IFSCCode          string    `gorm:"type:varchar(20)"`
}

type PayrollComponent struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentType string          `gorm:"type:varchar(20);not null"`
	Code          string          `gorm:"type:varchar(40);not null"`
	Name          string          `gorm:"type:varchar(120);not null"`
	Rate          decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`
	Base          string          `gorm:"type:varchar(20)"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SortOrder     int             `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

// PeriodSummary is one month of the dashboard aggregate.
type PeriodSummary struct {
	Month         int
	Year          int
	EmployerCost  decimal.Decimal
	NetAmount     decimal.Decimal
	EmployeeCount int64
}

func (p Payroll) earnings() []Line {
	return p.linesOf(ComponentTypeEarning)
}

func (p Payroll) deductions() []Line {
	return p.linesOf(ComponentTypeDeduction)
}

func (p Payroll) linesOf(componentType string) []Line {
	lines := make([]Line, 0, len(p.Components))
	for _, c := range p.Components {
		if c.ComponentType != componentType {
			continue
		}
		lines = append(lines, Line{Code: c.Code, Name: c.Name, Rate: c.Rate, Base: c.Base, Amount: c.Amount})
	}
	return lines
}

func componentsFromBreakdown(companyID, payrollID uuid.UUID, b Breakdown) []PayrollComponent {
	out := make([]PayrollComponent, 0, len(b.Earnings)+len(b.Deductions))
	add := func(componentType string, lines []Line) {
		for _, l := range lines {
			out = append(out, PayrollComponent{
				ID:            uuid.New(),
				PayrollID:     payrollID,
				CompanyID:     companyID,
				ComponentType: componentType,
				Code:          l.Code,
				Name:          l.Name,
				Rate:          l.Rate,
				Base:          l.Base,
				Amount:        l.Amount,
				SortOrder:     len(out),
			})
		}
	}
	add(ComponentTypeEarning, b.Earnings)
	add(ComponentTypeDeduction, b.Deductions)
	return out
}
