package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"workzen/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepository(t *testing.T) (*sql.DB, sqlmock.Sqlmock, payroll.Repository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)
	return db, mock, payroll.NewRepository(gdb)
}

func TestPayrollRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db, mock, repo := setupRepository(t)
	defer db.Close()

	storedID := uuid.New()
	createdAt := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	row := &payroll.Payroll{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		PayrunID:   uuid.New(),
		EmployeeID: uuid.New(),
		Month:      4,
		Year:       2025,
		Status:     payroll.StatusDone,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payrolls" .+ ON CONFLICT \("company_id","employee_id","month","year"\) DO UPDATE SET .*"payslip_path"="excluded"."payslip_path","payslip_generated_at"="excluded"."payslip_generated_at".* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(storedID.String()))
	mock.ExpectQuery(`SELECT "id","created_at" FROM "payrolls" WHERE .*employee_id = .+ AND month = .+ AND year = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(storedID.String(), createdAt))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	err = repo.WithTx(tx).Upsert(ctx, row)

	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.Equal(t, storedID, row.ID)
	assert.Equal(t, createdAt, row.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollRepository_SetPayslipPath(t *testing.T) {
	ctx := context.Background()
	db, mock, repo := setupRepository(t)
	defer db.Close()

	companyID := uuid.NewString()
	id := uuid.NewString()
	at := time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC)

	// Only the archive columns are written; status and amounts stay untouched.
	mock.ExpectExec(`^UPDATE "payrolls" SET "payslip_generated_at"=\$1,"payslip_path"=\$2,"updated_at"=\$3 WHERE (company_id = \$4 AND id = \$5|id = \$4 AND company_id = \$5)$`).
		WithArgs(at, "/data/payslips/a.pdf", at, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetPayslipPath(ctx, companyID, id, "/data/payslips/a.pdf", at)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
