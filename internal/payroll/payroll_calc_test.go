package payroll_test

import (
	"testing"
	"time"

	"workzen/internal/payroll"
	"workzen/internal/shared/period"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(t *testing.T, lines []payroll.Line, code string) string {
	t.Helper()
	for _, l := range lines {
		if l.Code == code {
			return l.Amount.StringFixed(2)
		}
	}
	t.Fatalf("line %s not found", code)
	return ""
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		p    period.Period
		want int
	}{
		{period.Period{Month: 1, Year: 2025}, 23},
		{period.Period{Month: 2, Year: 2025}, 20},
		{period.Period{Month: 2, Year: 2024}, 21},
		{period.Period{Month: 6, Year: 2025}, 21},
		{period.Period{Month: 9, Year: 2025}, 22},
	}

	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, payroll.WorkingDays(tt.p))
		})
	}
}

func TestWorkingDays_MatchesCalendar(t *testing.T) {
	for y := 2023; y <= 2026; y++ {
		for m := 1; m <= 12; m++ {
			p := period.Period{Month: m, Year: y}
			want := 0
			for d := p.Start(); d.Month() == time.Month(m); d = d.AddDate(0, 0, 1) {
				if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
					want++
				}
			}
			assert.Equal(t, want, payroll.WorkingDays(p), p.String())
		}
	}
}

func TestPaidLeaveDays_BoundaryLeave(t *testing.T) {
	// Tue Jan 28 2025 .. Thu Feb 6 2025
	leave := []payroll.LeaveRange{{From: date(2025, 1, 28), To: date(2025, 2, 6)}}

	jan := payroll.PaidLeaveDays(period.Period{Month: 1, Year: 2025}, leave)
	feb := payroll.PaidLeaveDays(period.Period{Month: 2, Year: 2025}, leave)

	assert.Equal(t, 4, jan) // 28, 29, 30, 31
	assert.Equal(t, 4, feb) // 3, 4, 5, 6
}

func TestPaidLeaveDays_SkipsWeekendsAndOtherMonths(t *testing.T) {
	p := period.Period{Month: 3, Year: 2025}
	leaves := []payroll.LeaveRange{
		{From: date(2025, 3, 8), To: date(2025, 3, 9)},   // Sat-Sun
		{From: date(2025, 3, 7), To: date(2025, 3, 10)},  // Fri-Mon
		{From: date(2025, 4, 1), To: date(2025, 4, 3)},   // other month
		{From: date(2025, 2, 27), To: date(2025, 3, 3)},  // Thu Feb 27 - Mon Mar 3
	}

	assert.Equal(t, 3, payroll.PaidLeaveDays(p, leaves))
}

func TestEmployerCost(t *testing.T) {
	salary := decimal.NewFromInt(30000)

	assert.Equal(t, "30000.00", payroll.EmployerCost(salary, 22, 22).StringFixed(2))
	assert.Equal(t, "27272.73", payroll.EmployerCost(salary, 22, 20).StringFixed(2))
	assert.Equal(t, "0.00", payroll.EmployerCost(salary, 22, 0).StringFixed(2))
	assert.Equal(t, "30000.00", payroll.EmployerCost(salary, 0, 5).StringFixed(2))
	assert.Equal(t, "31363.64", payroll.EmployerCost(salary, 22, 23).StringFixed(2))
}

func TestComputeBreakdown_WorkedExample(t *testing.T) {
	// 30000 salary, 22 working days, 20 attendance + 2 paid leave
	cost := payroll.EmployerCost(decimal.NewFromInt(30000), 22, 20+2)
	b := payroll.ComputeBreakdown(cost)

	assert.Equal(t, "30000.00", b.EmployerCost.StringFixed(2))
	assert.Equal(t, "15000.00", amount(t, b.Earnings, payroll.CodeBasic))
	assert.Equal(t, "7500.00", amount(t, b.Earnings, payroll.CodeHRA))
	assert.Equal(t, "5001.00", amount(t, b.Earnings, payroll.CodeStandardAllowance))
	assert.Equal(t, "2499.00", amount(t, b.Earnings, payroll.CodePerformanceBonus))
	assert.Equal(t, "2499.00", amount(t, b.Earnings, payroll.CodeLeaveTravel))
	assert.Equal(t, "3501.00", amount(t, b.Earnings, payroll.CodeFixedAllowance))
	assert.Equal(t, "36000.00", b.Gross.StringFixed(2))

	assert.Equal(t, "1800.00", amount(t, b.Deductions, payroll.CodePFEmployee))
	assert.Equal(t, "1800.00", amount(t, b.Deductions, payroll.CodePFEmployer))
	assert.Equal(t, "200.00", amount(t, b.Deductions, payroll.CodeProfessionalTax))
	assert.Equal(t, "3800.00", b.TotalDeductions.StringFixed(2))
	assert.Equal(t, "32200.00", b.Net.StringFixed(2))
}

func TestComputeBreakdown_RoundsEachLine(t *testing.T) {
	b := payroll.ComputeBreakdown(decimal.RequireFromString("12345.67"))

	// basic 6172.835 -> 6172.84, hra from rounded basic 3086.42
	assert.Equal(t, "6172.84", amount(t, b.Earnings, payroll.CodeBasic))
	assert.Equal(t, "3086.42", amount(t, b.Earnings, payroll.CodeHRA))
	assert.Equal(t, "740.74", amount(t, b.Deductions, payroll.CodePFEmployee))

	sum := decimal.Zero
	for _, l := range b.Earnings {
		sum = sum.Add(l.Amount)
	}
	assert.True(t, sum.Equal(b.Gross))
	assert.True(t, b.Gross.Sub(b.TotalDeductions).Equal(b.Net))
}

func TestComputeBreakdown_ProfessionalTaxIsFlat(t *testing.T) {
	for _, cost := range []string{"0", "1000", "250000.50"} {
		b := payroll.ComputeBreakdown(decimal.RequireFromString(cost))
		assert.Equal(t, "200.00", amount(t, b.Deductions, payroll.CodeProfessionalTax), cost)
	}
}
