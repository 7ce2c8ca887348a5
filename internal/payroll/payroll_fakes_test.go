package payroll_test

import (
	"context"
	"database/sql"
	"time"

	"workzen/internal/messaging/kafka"
	"workzen/internal/payroll"
	"workzen/internal/payrun"
	"workzen/internal/shared/period"

	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	upsertFn               func(ctx context.Context, p *payroll.Payroll) error
	replaceComponentsFn    func(ctx context.Context, companyID, payrollID string, components []payroll.PayrollComponent) error
	findByEmployeePeriodFn func(ctx context.Context, companyID, employeeID string, p period.Period) (*payroll.Payroll, error)
	findByEmployeeYearFn   func(ctx context.Context, companyID, employeeID string, year int) ([]payroll.Payroll, error)
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*payroll.Payroll, error)
	listByPeriodFn         func(ctx context.Context, companyID string, p period.Period, status string) ([]payroll.Payroll, error)
	summarizeByPeriodsFn   func(ctx context.Context, companyID string, from, to period.Period) ([]payroll.PeriodSummary, error)
	updateFn               func(ctx context.Context, p *payroll.Payroll) error
	setPayslipPathFn       func(ctx context.Context, companyID, id, path string, at time.Time) error
	upsertCalls            int
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepository) Upsert(ctx context.Context, p *payroll.Payroll) error {
	f.upsertCalls++
	if f.upsertFn != nil {
		return f.upsertFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) ReplaceComponents(ctx context.Context, companyID, payrollID string, components []payroll.PayrollComponent) error {
	if f.replaceComponentsFn != nil {
		return f.replaceComponentsFn(ctx, companyID, payrollID, components)
	}
	return nil
}

func (f *fakePayrollRepository) FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, p period.Period) (*payroll.Payroll, error) {
	if f.findByEmployeePeriodFn != nil {
		return f.findByEmployeePeriodFn(ctx, companyID, employeeID, p)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]payroll.Payroll, error) {
	if f.findByEmployeeYearFn != nil {
		return f.findByEmployeeYearFn(ctx, companyID, employeeID, year)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payroll.Payroll, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) ListByPeriod(ctx context.Context, companyID string, p period.Period, status string) ([]payroll.Payroll, error) {
	if f.listByPeriodFn != nil {
		return f.listByPeriodFn(ctx, companyID, p, status)
	}
	return nil, nil
}

func (f *fakePayrollRepository) SummarizeByPeriods(ctx context.Context, companyID string, from, to period.Period) ([]payroll.PeriodSummary, error) {
	if f.summarizeByPeriodsFn != nil {
		return f.summarizeByPeriodsFn(ctx, companyID, from, to)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) SetPayslipPath(ctx context.Context, companyID, id, path string, at time.Time) error {
	if f.setPayslipPathFn != nil {
		return f.setPayslipPathFn(ctx, companyID, id, path, at)
	}
	return nil
}

type fakePayrunRepository struct {
	ensureFn       func(ctx context.Context, p *payrun.Payrun) (*payrun.Payrun, error)
	findInWindowFn func(ctx context.Context, companyID string, from, to period.Period) ([]payrun.Payrun, error)
}

func (f *fakePayrunRepository) WithTx(tx *sql.Tx) payrun.Repository { return f }

func (f *fakePayrunRepository) Ensure(ctx context.Context, p *payrun.Payrun) (*payrun.Payrun, error) {
	if f.ensureFn != nil {
		return f.ensureFn(ctx, p)
	}
	return p, nil
}

func (f *fakePayrunRepository) FindByPeriod(ctx context.Context, companyID string, month, year int) (*payrun.Payrun, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrunRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payrun.Payrun, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrunRepository) FindAllByCompany(ctx context.Context, companyID string, year int) ([]payrun.Payrun, error) {
	return nil, nil
}

func (f *fakePayrunRepository) FindInWindow(ctx context.Context, companyID string, from, to period.Period) ([]payrun.Payrun, error) {
	if f.findInWindowFn != nil {
		return f.findInWindowFn(ctx, companyID, from, to)
	}
	return nil, nil
}

func (f *fakePayrunRepository) Update(ctx context.Context, p *payrun.Payrun) error { return nil }

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	created  []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeEmployees struct {
	getFn  func(ctx context.Context, companyID, employeeID string) (payroll.EmployeeRecord, error)
	listFn func(ctx context.Context, companyID string) ([]string, error)
}

func (f *fakeEmployees) GetEmployee(ctx context.Context, companyID, employeeID string) (payroll.EmployeeRecord, error) {
	if f.getFn != nil {
		return f.getFn(ctx, companyID, employeeID)
	}
	return payroll.EmployeeRecord{}, gorm.ErrRecordNotFound
}

func (f *fakeEmployees) ListEmployeeIDs(ctx context.Context, companyID string) ([]string, error) {
	if f.listFn != nil {
		return f.listFn(ctx, companyID)
	}
	return nil, nil
}

type fakeAttendance struct {
	present int
	err     error
}

func (f *fakeAttendance) CountPresentDays(ctx context.Context, companyID, employeeID string, from, to time.Time) (int, error) {
	return f.present, f.err
}

type fakeLeaves struct {
	ranges []payroll.LeaveRange
	err    error
}

func (f *fakeLeaves) FindApprovedPaidLeaves(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]payroll.LeaveRange, error) {
	return f.ranges, f.err
}

type fakeProfiles struct {
	bank     map[string]payroll.BankDetails
	warnings []payroll.BankDetailsWarning
}

func (f *fakeProfiles) GetBankDetails(ctx context.Context, companyID, employeeID string) (payroll.BankDetails, error) {
	return f.bank[employeeID], nil
}

func (f *fakeProfiles) FindMissingBankDetails(ctx context.Context, companyID string) ([]payroll.BankDetailsWarning, error) {
	return f.warnings, nil
}
