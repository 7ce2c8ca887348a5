package payrun

import (
	"context"
	"database/sql"

	"workzen/internal/shared/connection"
	"workzen/internal/shared/period"
	"workzen/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Ensure creates the payrun for the period unless one exists, then returns the stored row.
	Ensure(ctx context.Context, p *Payrun) (*Payrun, error)
	FindByPeriod(ctx context.Context, companyID string, month, year int) (*Payrun, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payrun, error)
	FindAllByCompany(ctx context.Context, companyID string, year int) ([]Payrun, error)
	FindInWindow(ctx context.Context, companyID string, from, to period.Period) ([]Payrun, error)
	Update(ctx context.Context, p *Payrun) error
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

func (r *repository) Ensure(ctx context.Context, p *Payrun) (*Payrun, error) {
	err := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "year"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(p).Error
	if err != nil {
		return nil, err
	}
	return r.FindByPeriod(ctx, p.CompanyID.String(), p.Month, p.Year)
}

func (r *repository) FindByPeriod(ctx context.Context, companyID string, month, year int) (*Payrun, error) {
	var p Payrun
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("month = ? AND year = ?", month, year).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payrun, error) {
	var p Payrun
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, year int) ([]Payrun, error) {
	var rows []Payrun
	q := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if year > 0 {
		q = q.Where("year = ?", year)
	}
	err := q.Order("year DESC, month DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindInWindow(ctx context.Context, companyID string, from, to period.Period) ([]Payrun, error) {
	var rows []Payrun
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("(year * 100 + month) BETWEEN ? AND ?", from.Year*100+from.Month, to.Year*100+to.Month).
		Order("year ASC, month ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, p *Payrun) error {
	return r.conn(ctx).Save(p).Error
}
