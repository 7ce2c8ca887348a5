package payroll

import (
	"context"
	"fmt"

	payrollerrors "workzen/internal/payroll/errors"
	"workzen/internal/shared/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const statementSheet = "Statement"

func (s *service) GetYearlyStatement(ctx context.Context, companyID, employeeID string, year int) (YearlyStatementResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return YearlyStatementResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return YearlyStatementResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	if err := (period.Period{Month: 1, Year: year}).Validate(); err != nil {
		return YearlyStatementResponse{}, payrollerrors.ErrInvalidPeriod
	}

	emp, err := s.loadEmployee(ctx, companyID, employeeID)
	if err != nil {
		return YearlyStatementResponse{}, err
	}

	rows, err := s.repo.FindByEmployeeYear(ctx, companyID, employeeID, year)
	if err != nil {
		return YearlyStatementResponse{}, err
	}

	byMonth := make(map[int]Payroll, len(rows))
	for _, r := range rows {
		if r.Status == StatusDone || r.Status == StatusPaid {
			byMonth[r.Month] = r
		}
	}

	resp := YearlyStatementResponse{
		EmployeeID: employeeID,
		Year:       year,
		Employee:   snapshotResponse(employeeID, buildSnapshot(emp, BankDetails{})),
		Months:     make([]StatementMonth, 0, 12),
		Totals: StatementTotals{
			GrossAmount:     decimal.Zero,
			TotalDeductions: decimal.Zero,
			NetAmount:       decimal.Zero,
		},
	}

	for m := 1; m <= 12; m++ {
		month := StatementMonth{
			Month:           m,
			Period:          period.Period{Month: m, Year: year}.String(),
			GrossAmount:     decimal.Zero,
			TotalDeductions: decimal.Zero,
			NetAmount:       decimal.Zero,
		}
		if r, ok := byMonth[m]; ok {
			month.HasData = true
			month.Status = r.Status
			month.WorkedDays = r.WorkedDays
			month.GrossAmount = r.GrossAmount
			month.TotalDeductions = r.TotalDeductions
			month.NetAmount = r.NetAmount

			resp.Totals.GrossAmount = resp.Totals.GrossAmount.Add(r.GrossAmount)
			resp.Totals.TotalDeductions = resp.Totals.TotalDeductions.Add(r.TotalDeductions)
			resp.Totals.NetAmount = resp.Totals.NetAmount.Add(r.NetAmount)
			resp.Totals.MonthsWithData++
		}
		resp.Months = append(resp.Months, month)
	}

	return resp, nil
}

func (s *service) ExportYearlyStatementXLSX(ctx context.Context, companyID, employeeID string, year int) ([]byte, string, error) {
	stmt, err := s.GetYearlyStatement(ctx, companyID, employeeID, year)
	if err != nil {
		return nil, "", err
	}
	data, err := RenderStatementXLSX(stmt)
	if err != nil {
		return nil, "", err
	}
	number := stmt.Employee.EmployeeNumber
	if number == "" {
		number = employeeID
	}
	return data, fmt.Sprintf("salary-statement-%s-%d.xlsx", number, year), nil
}

// RenderStatementXLSX writes one row per month followed by a totals row.
func RenderStatementXLSX(stmt YearlyStatementResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return nil, err
	}

	header := []any{"Period", "Status", "Worked Days", "Gross", "Deductions", "Net"}
	if err := f.SetSheetRow(statementSheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, m := range stmt.Months {
		values := []any{m.Period, m.Status, m.WorkedDays, m.GrossAmount.InexactFloat64(), m.TotalDeductions.InexactFloat64(), m.NetAmount.InexactFloat64()}
		if !m.HasData {
			values[1] = "-"
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(statementSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	totals := []any{"Total", fmt.Sprintf("%d months", stmt.Totals.MonthsWithData), "",
		stmt.Totals.GrossAmount.InexactFloat64(), stmt.Totals.TotalDeductions.InexactFloat64(), stmt.Totals.NetAmount.InexactFloat64()}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(statementSheet, cell, &totals); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write statement workbook: %w", err)
	}
	return buf.Bytes(), nil
}
