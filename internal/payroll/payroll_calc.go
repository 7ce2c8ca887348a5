package payroll

import (
	"time"

	"workzen/internal/shared/period"

	"github.com/shopspring/decimal"
)

// Component codes, also used as payroll_components.code.
const (
	CodeBasic              = "BASIC"
	CodeHRA                = "HRA"
	CodeStandardAllowance  = "STANDARD_ALLOWANCE"
	CodePerformanceBonus   = "PERFORMANCE_BONUS"
	CodeLeaveTravel        = "LTA"
	CodeFixedAllowance     = "FIXED_ALLOWANCE"
	CodePFEmployee         = "PF_EMPLOYEE"
	CodePFEmployer         = "PF_EMPLOYER"
	CodeProfessionalTax    = "PROFESSIONAL_TAX"
	ComponentTypeEarning   = "EARNING"
	ComponentTypeDeduction = "DEDUCTION"
)

var (
	rateBasic             = decimal.RequireFromString("50")
	rateHRA               = decimal.RequireFromString("50")
	rateStandardAllowance = decimal.RequireFromString("16.67")
	ratePerformanceBonus  = decimal.RequireFromString("8.33")
	rateLeaveTravel       = decimal.RequireFromString("8.33")
	rateFixedAllowance    = decimal.RequireFromString("11.67")
	ratePF                = decimal.RequireFromString("12")

	professionalTax = decimal.NewFromInt(200)
	hundred         = decimal.NewFromInt(100)
)

// Line is one earning or deduction. Rate is a percentage of Base; flat lines have a zero rate.
type Line struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Base   string          `json:"base,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

type WorkedDays struct {
	WorkingDays    int `json:"workingDays"`
	AttendanceDays int `json:"attendanceDays"`
	PaidLeaveDays  int `json:"paidLeaveDays"`
	Total          int `json:"totalWorkedDays"`
}

type Breakdown struct {
	EmployerCost    decimal.Decimal `json:"employerCost"`
	Earnings        []Line          `json:"earnings"`
	Deductions      []Line          `json:"deductionsList"`
	Gross           decimal.Decimal `json:"grossAmount"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	Net             decimal.Decimal `json:"netAmount"`
}

// LeaveRange is an approved leave, inclusive on both ends.
type LeaveRange struct {
	From time.Time
	To   time.Time
}

// round2 rounds half away from zero, which is half-up for the non-negative amounts payroll deals in.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func percentOf(rate, base decimal.Decimal) decimal.Decimal {
	return round2(base.Mul(rate).Div(hundred))
}

func WorkingDays(p period.Period) int {
	return period.Weekdays(p.Start(), p.End())
}

// PaidLeaveDays clips each range to the month before counting its weekdays, so a leave crossing
// a month boundary is credited to each month separately.
func PaidLeaveDays(p period.Period, leaves []LeaveRange) int {
	total := 0
	for _, l := range leaves {
		from, to, ok := p.Clip(l.From, l.To)
		if !ok {
			continue
		}
		total += period.Weekdays(from, to)
	}
	return total
}

// EmployerCost pro-rates the monthly salary by worked days. Worked days are not capped at the
// working days of the month.
func EmployerCost(monthlySalary decimal.Decimal, workingDays, workedDays int) decimal.Decimal {
	if workingDays <= 0 {
		return round2(monthlySalary)
	}
	return round2(monthlySalary.Mul(decimal.NewFromInt(int64(workedDays))).Div(decimal.NewFromInt(int64(workingDays))))
}

// ComputeBreakdown splits employer cost into the fixed component table. Every line is rounded on
// its own and totals are sums of rounded lines. The table intentionally sums above 100%.
func ComputeBreakdown(employerCost decimal.Decimal) Breakdown {
	employerCost = round2(employerCost)

	basic := percentOf(rateBasic, employerCost)
	earnings := []Line{
		{Code: CodeBasic, Name: "Basic Salary", Rate: rateBasic, Base: "employerCost", Amount: basic},
		{Code: CodeHRA, Name: "House Rent Allowance", Rate: rateHRA, Base: "basic", Amount: percentOf(rateHRA, basic)},
		{Code: CodeStandardAllowance, Name: "Standard Allowance", Rate: rateStandardAllowance, Base: "employerCost", Amount: percentOf(rateStandardAllowance, employerCost)},
		{Code: CodePerformanceBonus, Name: "Performance Bonus", Rate: ratePerformanceBonus, Base: "employerCost", Amount: percentOf(ratePerformanceBonus, employerCost)},
		{Code: CodeLeaveTravel, Name: "Leave Travel Allowance", Rate: rateLeaveTravel, Base: "employerCost", Amount: percentOf(rateLeaveTravel, employerCost)},
		{Code: CodeFixedAllowance, Name: "Fixed Allowance", Rate: rateFixedAllowance, Base: "employerCost", Amount: percentOf(rateFixedAllowance, employerCost)},
	}

	pf := percentOf(ratePF, basic)
	deductions := []Line{
		{Code: CodePFEmployee, Name: "PF (Employee)", Rate: ratePF, Base: "basic", Amount: pf},
		{Code: CodePFEmployer, Name: "PF (Employer)", Rate: ratePF, Base: "basic", Amount: pf},
		{Code: CodeProfessionalTax, Name: "Professional Tax", Rate: decimal.Zero, Amount: professionalTax},
	}

	gross := sumLines(earnings)
	totalDeductions := sumLines(deductions)

	return Breakdown{
		EmployerCost:    employerCost,
		Earnings:        earnings,
		Deductions:      deductions,
		Gross:           gross,
		TotalDeductions: totalDeductions,
		Net:             gross.Sub(totalDeductions),
	}
}

func sumLines(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
