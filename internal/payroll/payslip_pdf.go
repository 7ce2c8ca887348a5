package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslip draws a single A4 payslip with the employee block, worked days and both
// component tables.
func RenderPayslip(d PayslipDetailResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	status := d.Status
	if d.Source == SourcePreview {
		status += " (preview)"
	}
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s    Status: %s", d.Period, status))
	pdf.Ln(10)

	emp := d.Employee
	info := [][2]string{
		{"Employee", emp.FullName},
		{"Employee No.", emp.EmployeeNumber},
		{"Department", emp.Department},
		{"Designation", emp.Designation},
		{"Location", emp.Location},
		{"Joining Date", emp.JoiningDate},
		{"PAN", emp.PAN},
		{"UAN", emp.UAN},
		{"Bank", emp.BankName},
		{"Account No.", emp.BankAccountNumber},
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	wd := d.WorkedDays
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Working days: %d    Attendance: %d    Paid leave: %d    Worked: %d",
		wd.WorkingDays, wd.AttendanceDays, wd.PaidLeaveDays, wd.Total))
	pdf.Ln(10)

	drawLines(pdf, "Earnings", d.Earnings, "Gross", d.Gross.StringFixed(2))
	pdf.Ln(4)
	drawLines(pdf, "Deductions", d.Deductions, "Total deductions", d.TotalDeductions.StringFixed(2))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 8, "Net pay", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, d.Net.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLines(pdf *gofpdf.Fpdf, title string, lines []Line, totalLabel, total string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(100, 7, title, "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Rate %", "1", 0, "R", true, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range lines {
		pdf.CellFormat(100, 6, l.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, l.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, l.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(130, 7, totalLabel, "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, total, "1", 1, "R", false, 0, "")
}

func payslipFilename(d PayslipDetailResponse) string {
	number := strings.TrimSpace(d.Employee.EmployeeNumber)
	if number == "" {
		number = d.Employee.EmployeeID
	}
	return fmt.Sprintf("payslip-%s-%04d-%02d.pdf", number, d.Year, d.Month)
}
