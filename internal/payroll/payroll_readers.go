package payroll

import (
	"context"
	"errors"
	"time"

	"workzen/internal/attendance"
	"workzen/internal/employee"
	"workzen/internal/leave"
	"workzen/internal/profile"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmployeeRecord is what payroll needs from an employee row.
type EmployeeRecord struct {
	ID                string
	EmployeeNumber    string
	FullName          string
	Email             string
	Department        string
	Designation       string
	Location          string
	JoiningDate       time.Time
	Salary            decimal.Decimal
	PAN               string
	UAN               string
	BankAccountNumber string
}

type BankDetails struct {
	AccountNumber string
	BankName      string
	IFSCCode      string
	PANNumber     string
	UANNumber     string
}

// Complete reports whether payroll may be marked done with these details.
func (b BankDetails) Complete() bool {
	return b.AccountNumber != "" && b.BankName != ""
}

type BankDetailsWarning struct {
	EmployeeID     string `json:"employeeId"`
	EmployeeNumber string `json:"employeeNumber"`
	FullName       string `json:"fullName"`
	Message        string `json:"message"`
}

type EmployeeReader interface {
	GetEmployee(ctx context.Context, companyID, employeeID string) (EmployeeRecord, error)
	ListEmployeeIDs(ctx context.Context, companyID string) ([]string, error)
}

type AttendanceReader interface {
	CountPresentDays(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error)
}

type LeaveReader interface {
	FindApprovedPaidLeaves(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]LeaveRange, error)
}

type ProfileReader interface {
	// GetBankDetails returns zero details, not an error, when no profile exists.
	GetBankDetails(ctx context.Context, companyID, employeeID string) (BankDetails, error)
	FindMissingBankDetails(ctx context.Context, companyID string) ([]BankDetailsWarning, error)
}

type employeeReader struct{ repo employee.Repository }

func NewEmployeeReader(repo employee.Repository) EmployeeReader {
	return &employeeReader{repo: repo}
}

func (r *employeeReader) GetEmployee(ctx context.Context, companyID, employeeID string) (EmployeeRecord, error) {
	e, err := r.repo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return EmployeeRecord{}, err
	}
	return EmployeeRecord{
		ID:                e.ID.String(),
		EmployeeNumber:    e.EmployeeNumber,
		FullName:          e.FullName,
		Email:             e.Email,
		Department:        e.Department,
		Designation:       e.Designation,
		Location:          e.Location,
		JoiningDate:       e.JoiningDate,
		Salary:            e.Salary,
		PAN:               e.PAN,
		UAN:               e.UAN,
		BankAccountNumber: e.BankAccountNumber,
	}, nil
}

func (r *employeeReader) ListEmployeeIDs(ctx context.Context, companyID string) ([]string, error) {
	rows, err := r.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, e := range rows {
		if e.EmploymentStatus == employee.StatusInactive {
			continue
		}
		ids = append(ids, e.ID.String())
	}
	return ids, nil
}

type attendanceReader struct{ repo attendance.Repository }

func NewAttendanceReader(repo attendance.Repository) AttendanceReader {
	return &attendanceReader{repo: repo}
}

func (r *attendanceReader) CountPresentDays(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error) {
	n, err := r.repo.CountByStatus(ctx, companyID, employeeID, attendance.StatusPresent, from, to)
	return int(n), err
}

type leaveReader struct{ repo leave.Repository }

func NewLeaveReader(repo leave.Repository) LeaveReader {
	return &leaveReader{repo: repo}
}

func (r *leaveReader) FindApprovedPaidLeaves(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]LeaveRange, error) {
	rows, err := r.repo.FindApprovedOverlapping(ctx, companyID, employeeID, leave.TypePaidTimeOff, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveRange, len(rows))
	for i, l := range rows {
		out[i] = LeaveRange{From: l.StartDate, To: l.EndDate}
	}
	return out, nil
}

type profileReader struct{ repo profile.Repository }

func NewProfileReader(repo profile.Repository) ProfileReader {
	return &profileReader{repo: repo}
}

func (r *profileReader) GetBankDetails(ctx context.Context, companyID, employeeID string) (BankDetails, error) {
	p, err := r.repo.FindByEmployee(ctx, companyID, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return BankDetails{}, nil
	}
	if err != nil {
		return BankDetails{}, err
	}
	return BankDetails{
		AccountNumber: p.AccountNumber,
		BankName:      p.BankName,
		IFSCCode:      p.IFSCCode,
		PANNumber:     p.PANNumber,
		UANNumber:     p.UANNumber,
	}, nil
}

func (r *profileReader) FindMissingBankDetails(ctx context.Context, companyID string) ([]BankDetailsWarning, error) {
	rows, err := r.repo.FindMissingBankDetails(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]BankDetailsWarning, len(rows))
	for i, m := range rows {
		out[i] = BankDetailsWarning{
			EmployeeID:     m.EmployeeID,
			EmployeeNumber: m.EmployeeNumber,
			FullName:       m.FullName,
			Message:        "bank account number or bank name missing",
		}
	}
	return out, nil
}
