package profile

import (
	"context"
	"database/sql"

	"workzen/internal/shared/connection"
	"workzen/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// EnsureForEmployee inserts an empty profile unless one already exists.
	EnsureForEmployee(ctx context.Context, p *Profile) error
	FindByEmployee(ctx context.Context, companyID, employeeID string) (*Profile, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Profile, error)
	FindMissingBankDetails(ctx context.Context, companyID string) ([]MissingBankDetails, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	Save(ctx context.Context, p *Profile) error
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

func (r *repository) EnsureForEmployee(ctx context.Context, p *Profile) error {
	return r.conn(ctx).
		Omit("Employee").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "employee_id"}},
			DoNothing: true,
		}).
		Create(p).Error
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		First(&p, "employee_id = ?", employeeID).Error
	return &p, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Profile, error) {
	var rows []Profile
	err := r.conn(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindMissingBankDetails(ctx context.Context, companyID string) ([]MissingBankDetails, error) {
	var rows []MissingBankDetails
	err := r.conn(ctx).
		Table("employees e").
		Select("e.id::text AS employee_id, e.employee_number, e.full_name").
		Joins("LEFT JOIN profiles p ON p.employee_id = e.id AND p.company_id = e.company_id AND p.deleted_at IS NULL").
		Scopes(tenant.ScopeTable("e", companyID)).
		Where("e.deleted_at IS NULL").
		Where("e.employment_status = ?", "ACTIVE").
		Where("(p.id IS NULL OR COALESCE(p.account_number, '') = '' OR COALESCE(p.bank_name, '') = '')").
		Order("e.employee_number ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Save(ctx context.Context, p *Profile) error {
	return r.conn(ctx).Omit("Employee").Save(p).Error
}
