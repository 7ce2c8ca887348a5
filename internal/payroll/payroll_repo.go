package payroll

import (
	"context"
	"database/sql"
	"time"

	"workzen/internal/shared/connection"
	"workzen/internal/shared/period"
	"workzen/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert writes the row keyed by (company, employee, month, year) and loads the stored id back
	// into p.
	Upsert(ctx context.Context, p *Payroll) error
	ReplaceComponents(ctx context.Context, companyID, payrollID string, components []PayrollComponent) error
	FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, p period.Period) (*Payroll, error)
	FindByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error)
	ListByPeriod(ctx context.Context, companyID string, p period.Period, status string) ([]Payroll, error)
	SummarizeByPeriods(ctx context.Context, companyID string, from, to period.Period) ([]PeriodSummary, error)
	Update(ctx context.Context, p *Payroll) error
	// SetPayslipPath writes only the archive columns so a concurrent status or amount change survives.
	SetPayslipPath(ctx context.Context, companyID, id, path string, at time.Time) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Session(ctx, r.db, r.tx)
}

var upsertColumns = []string{
	"payrun_id", "working_days", "attendance_days", "paid_leave_days", "worked_days",
	"monthly_salary", "employer_cost", "gross_amount", "total_deductions", "net_amount",
	"status", "marked_done_by", "marked_done_at",
	"snapshot_employee_number", "snapshot_full_name", "snapshot_email", "snapshot_department",
	"snapshot_designation", "snapshot_location", "snapshot_joining_date", "snapshot_pan",
	"snapshot_uan", "snapshot_bank_account_number", "snapshot_bank_name", "snapshot_ifsc_code",
	"payslip_path", "payslip_generated_at", "updated_at",
}

func (r *repository) Upsert(ctx context.Context, p *Payroll) error {
	err := r.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"}, {Name: "employee_id"}, {Name: "month"}, {Name: "year"},
			},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(p).Error
	if err != nil {
		return err
	}

	// On conflict the generated id is discarded; read back the surviving row's id.
	var stored Payroll
	err = r.conn(ctx).
		Select("id", "created_at").
		Scopes(tenant.Scope(p.CompanyID.String())).
		Where("employee_id = ? AND month = ? AND year = ?", p.EmployeeID, p.Month, p.Year).
		First(&stored).Error
	if err != nil {
		return err
	}
	p.ID = stored.ID
	p.CreatedAt = stored.CreatedAt
	return nil
}

func (r *repository) ReplaceComponents(ctx context.Context, companyID, payrollID string, components []PayrollComponent) error {
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_id = ?", payrollID).
		Delete(&PayrollComponent{}).Error
	if err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&components).Error
}

func (r *repository) withComponents(db *gorm.DB) *gorm.DB {
	return db.Preload("Components", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

func (r *repository) FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, p period.Period) (*Payroll, error) {
	var row Payroll
	err := r.withComponents(r.conn(ctx)).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, p.Month, p.Year).
		First(&row).Error
	return &row, err
}

func (r *repository) FindByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]Payroll, error) {
	var rows []Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("month ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error) {
	var row Payroll
	err := r.withComponents(r.conn(ctx)).
		Scopes(tenant.Scope(companyID)).
		First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) ListByPeriod(ctx context.Context, companyID string, p period.Period, status string) ([]Payroll, error) {
	var rows []Payroll
	q := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("month = ? AND year = ?", p.Month, p.Year)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("snapshot_full_name ASC").Find(&rows).Error
	return rows, err
}

// SummarizeByPeriods totals only rows attached to a payrun, so a month without a payrun reports
// nothing.
func (r *repository) SummarizeByPeriods(ctx context.Context, companyID string, from, to period.Period) ([]PeriodSummary, error) {
	var rows []PeriodSummary
	err := r.conn(ctx).
		Table("payrolls").
		Select(`payrolls.month, payrolls.year,
			COALESCE(SUM(payrolls.employer_cost), 0) AS employer_cost,
			COALESCE(SUM(payrolls.net_amount), 0) AS net_amount,
			COUNT(DISTINCT payrolls.employee_id) AS employee_count`).
		Joins("JOIN payruns ON payruns.id = payrolls.payrun_id").
		Scopes(tenant.ScopeTable("payrolls", companyID)).
		Where("payrolls.status IN ?", []string{StatusDone, StatusPaid}).
		Where("(payrolls.year * 100 + payrolls.month) BETWEEN ? AND ?", from.Year*100+from.Month, to.Year*100+to.Month).
		Group("payrolls.year, payrolls.month").
		Order("payrolls.year ASC, payrolls.month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return r.conn(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *repository) SetPayslipPath(ctx context.Context, companyID, id, path string, at time.Time) error {
	return r.conn(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"payslip_path":         path,
			"payslip_generated_at": at,
			"updated_at":           at,
		}).Error
}
