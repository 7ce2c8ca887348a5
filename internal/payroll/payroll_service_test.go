package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"workzen/internal/events"
	"workzen/internal/messaging/kafka"
	"workzen/internal/payroll"
	payrollerrors "workzen/internal/payroll/errors"
	"workzen/internal/payrun"
	payrunerrors "workzen/internal/payrun/errors"
	"workzen/internal/shared/period"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var april2025 = period.Period{Month: 4, Year: 2025}

type testDeps struct {
	db         *sql.DB
	mock       sqlmock.Sqlmock
	redis      *redis.Client
	redismock  redismock.ClientMock
	repo       *fakePayrollRepository
	payruns    *fakePayrunRepository
	outbox     *fakeOutboxRepository
	employees  *fakeEmployees
	attendance *fakeAttendance
	leaves     *fakeLeaves
	profiles   *fakeProfiles
	service    payroll.Service
}

func setupService(t *testing.T) testDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	rdb, rmock := redismock.NewClientMock()

	d := testDeps{
		db:         db,
		mock:       mock,
		redis:      rdb,
		redismock:  rmock,
		repo:       &fakePayrollRepository{},
		payruns:    &fakePayrunRepository{},
		outbox:     &fakeOutboxRepository{},
		employees:  &fakeEmployees{},
		attendance: &fakeAttendance{},
		leaves:     &fakeLeaves{},
		profiles:   &fakeProfiles{bank: map[string]payroll.BankDetails{}},
	}
	d.service = payroll.NewService(payroll.ServiceDeps{
		DB:         db,
		Repo:       d.repo,
		Payruns:    d.payruns,
		Outbox:     d.outbox,
		Employees:  d.employees,
		Attendance: d.attendance,
		Leaves:     d.leaves,
		Profiles:   d.profiles,
		Redis:      rdb,
		CacheTTL:   10 * time.Minute,
		PayslipDir: t.TempDir(),
		Now:        func() time.Time { return time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC) },
	})
	return d
}

// employeeOnSalary wires a 30000 salary with 20 present days and a two-day paid leave in April 2025,
// which has 22 working days.
func employeeOnSalary(d testDeps, employeeID string) {
	d.employees.getFn = func(ctx context.Context, companyID, id string) (payroll.EmployeeRecord, error) {
		return payroll.EmployeeRecord{
			ID:             id,
			EmployeeNumber: "EMP-000001",
			FullName:       "Asha Rao",
			Department:     "Engineering",
			Salary:         decimal.NewFromInt(30000),
		}, nil
	}
	d.attendance.present = 20
	d.leaves.ranges = []payroll.LeaveRange{{
		From: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 4, 11, 0, 0, 0, 0, time.UTC),
	}}
	d.profiles.bank[employeeID] = payroll.BankDetails{AccountNumber: "001234567890", BankName: "State Bank", IFSCCode: "SBIN0000001"}
}

func dashboardKeys(companyID string, p period.Period) []string {
	keys := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		keys = append(keys, "payroll:dashboard:"+companyID+":"+p.AddMonths(i).String())
	}
	return keys
}

func TestComputeWorkedDays(t *testing.T) {
	wd, err := payroll.ComputeWorkedDays(context.Background(),
		&fakeAttendance{present: 20},
		&fakeLeaves{ranges: []payroll.LeaveRange{{
			From: time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		}}},
		uuid.NewString(), uuid.NewString(), april2025)

	assert.NoError(t, err)
	assert.Equal(t, 22, wd.WorkingDays)
	assert.Equal(t, 20, wd.AttendanceDays)
	assert.Equal(t, 2, wd.PaidLeaveDays)
	assert.Equal(t, 22, wd.Total)
}

func TestPayrollService_MarkDone(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.NewString()
	actorID := uuid.NewString()
	req := payroll.MarkDoneRequest{EmployeeID: employeeID, Month: 4, Year: 2025}

	t.Run("success persists snapshot and outbox event", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)

		runID := uuid.New()
		d.payruns.ensureFn = func(ctx context.Context, p *payrun.Payrun) (*payrun.Payrun, error) {
			assert.Equal(t, 4, p.Month)
			p.ID = runID
			return p, nil
		}
		var stored *payroll.Payroll
		d.repo.upsertFn = func(ctx context.Context, p *payroll.Payroll) error {
			stored = p
			return nil
		}
		var components []payroll.PayrollComponent
		d.repo.replaceComponentsFn = func(ctx context.Context, cid, pid string, c []payroll.PayrollComponent) error {
			components = c
			return nil
		}

		d.mock.ExpectBegin()
		d.mock.ExpectCommit()
		d.redismock.ExpectDel(dashboardKeys(companyID, april2025)...).SetVal(1)

		resp, err := d.service.MarkDone(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, payroll.SourceStored, resp.Source)
		assert.Equal(t, payroll.StatusDone, resp.Status)
		assert.Equal(t, runID.String(), resp.PayrunID)
		assert.Equal(t, 22, resp.WorkedDays.Total)
		assert.Equal(t, "36000.00", resp.Gross.StringFixed(2))
		assert.Equal(t, "3800.00", resp.TotalDeductions.StringFixed(2))
		assert.Equal(t, "32200.00", resp.Net.StringFixed(2))
		assert.Len(t, resp.Earnings, 6)
		assert.Len(t, resp.Deductions, 3)
		assert.Equal(t, "State Bank", resp.Employee.BankName)

		assert.Equal(t, payroll.StatusDone, stored.Status)
		assert.Equal(t, "Asha Rao", stored.Snapshot.FullName)
		assert.Equal(t, actorID, stored.MarkedDoneBy.String())
		assert.Len(t, components, 9)

		assert.Len(t, d.outbox.created, 1)
		ev := d.outbox.created[0]
		assert.Equal(t, events.EventTypePayrollMarkedDone, ev.EventType)
		assert.Equal(t, events.PayrollMarkedDoneTopic, ev.Topic)
		var payload events.PayrollMarkedDoneEvent
		assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, "32200.00", payload.NetPay)
		assert.Equal(t, employeeID, payload.EmployeeID)

		assert.NoError(t, d.mock.ExpectationsWereMet())
		assert.NoError(t, d.redismock.ExpectationsWereMet())
	})

	t.Run("marking twice overwrites the same row", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)

		// keyed like the unique (company, employee, month, year) index
		rows := map[string]*payroll.Payroll{}
		d.repo.upsertFn = func(ctx context.Context, p *payroll.Payroll) error {
			key := p.CompanyID.String() + "|" + p.EmployeeID.String() + "|" + period.Period{Month: p.Month, Year: p.Year}.String()
			if existing, ok := rows[key]; ok {
				p.ID = existing.ID
				p.CreatedAt = existing.CreatedAt
			}
			cp := *p
			rows[key] = &cp
			return nil
		}
		var componentTargets []string
		d.repo.replaceComponentsFn = func(ctx context.Context, cid, pid string, c []payroll.PayrollComponent) error {
			componentTargets = append(componentTargets, pid)
			for _, comp := range c {
				assert.Equal(t, pid, comp.PayrollID.String())
			}
			return nil
		}

		for i := 0; i < 2; i++ {
			d.mock.ExpectBegin()
			d.mock.ExpectCommit()
			d.redismock.ExpectDel(dashboardKeys(companyID, april2025)...).SetVal(1)
		}

		first, err := d.service.MarkDone(ctx, companyID, actorID, req)
		assert.NoError(t, err)

		d.attendance.present = 18
		second, err := d.service.MarkDone(ctx, companyID, actorID, req)
		assert.NoError(t, err)

		assert.Len(t, rows, 1)
		assert.Equal(t, first.PayrollID, second.PayrollID)
		assert.Equal(t, []string{first.PayrollID, first.PayrollID}, componentTargets)
		assert.Equal(t, 20, second.WorkedDays.Total)
		for _, row := range rows {
			assert.Equal(t, 20, row.WorkedDays)
		}
		assert.Equal(t, 2, d.repo.upsertCalls)
		assert.NoError(t, d.mock.ExpectationsWereMet())
		assert.NoError(t, d.redismock.ExpectationsWereMet())
	})

	t.Run("missing bank details writes nothing", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)
		d.profiles.bank[employeeID] = payroll.BankDetails{AccountNumber: "001234567890"}

		_, err := d.service.MarkDone(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, payrollerrors.ErrMissingBankDetails)
		assert.Equal(t, 0, d.repo.upsertCalls)
		assert.Empty(t, d.outbox.created)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("unknown employee", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()

		_, err := d.service.MarkDone(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("invalid period", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()

		_, err := d.service.MarkDone(ctx, companyID, actorID, payroll.MarkDoneRequest{EmployeeID: employeeID, Month: 0, Year: 2025})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})

	t.Run("closed payrun rolls back", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)
		d.payruns.ensureFn = func(ctx context.Context, p *payrun.Payrun) (*payrun.Payrun, error) {
			p.Status = payrun.StatusClosed
			return p, nil
		}

		d.mock.ExpectBegin()
		d.mock.ExpectRollback()

		_, err := d.service.MarkDone(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, payrunerrors.ErrPayrunClosed)
		assert.Equal(t, 0, d.repo.upsertCalls)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("paid payroll is frozen", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)
		d.repo.findByEmployeePeriodFn = func(ctx context.Context, cid, eid string, p period.Period) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.New(), Status: payroll.StatusPaid}, nil
		}

		d.mock.ExpectBegin()
		d.mock.ExpectRollback()

		_, err := d.service.MarkDone(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyPaid)
		assert.Equal(t, 0, d.repo.upsertCalls)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)
		d.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error { return errors.New("outbox down") }

		d.mock.ExpectBegin()
		d.mock.ExpectRollback()

		_, err := d.service.MarkDone(ctx, companyID, actorID, req)

		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})
}

func TestPayrollService_MarkDoneBatch(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	ready := uuid.NewString()
	missingBank := uuid.NewString()

	d := setupService(t)
	defer d.db.Close()
	employeeOnSalary(d, ready)
	d.employees.listFn = func(ctx context.Context, cid string) ([]string, error) {
		return []string{ready, missingBank}, nil
	}

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()
	d.redismock.ExpectDel(dashboardKeys(companyID, april2025)...).SetVal(1)

	resp, err := d.service.MarkDoneBatch(ctx, companyID, uuid.NewString(), payroll.MarkDoneBatchRequest{Month: 4, Year: 2025})

	assert.NoError(t, err)
	assert.Equal(t, "2025-04", resp.Period)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.True(t, resp.Results[0].Ok)
	assert.Equal(t, "32200.00", resp.Results[0].NetAmount.StringFixed(2))
	assert.False(t, resp.Results[1].Ok)
	assert.Equal(t, "PRECONDITION_FAILED", resp.Results[1].Error.Code)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestPayrollService_MarkDoneBatch_TooLarge(t *testing.T) {
	d := setupService(t)
	defer d.db.Close()

	ids := make([]string, 501)
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	_, err := d.service.MarkDoneBatch(context.Background(), uuid.NewString(), uuid.NewString(),
		payroll.MarkDoneBatchRequest{Month: 4, Year: 2025, EmployeeIDs: ids})

	assert.ErrorIs(t, err, payrollerrors.ErrBatchTooLarge)
}

func TestPayrollService_GetPayslipDetail(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	t.Run("returns stored row verbatim", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		d.repo.findByEmployeePeriodFn = func(ctx context.Context, cid, eid string, p period.Period) (*payroll.Payroll, error) {
			return &payroll.Payroll{
				ID:          uuid.New(),
				EmployeeID:  uuid.MustParse(employeeID),
				Month:       4,
				Year:        2025,
				Status:      payroll.StatusDone,
				WorkedDays:  18,
				GrossAmount: decimal.RequireFromString("100.00"),
				NetAmount:   decimal.RequireFromString("90.00"),
				Snapshot:    payroll.EmployeeSnapshot{FullName: "Old Name"},
				Components: []payroll.PayrollComponent{
					{ComponentType: payroll.ComponentTypeEarning, Code: payroll.CodeBasic, Amount: decimal.RequireFromString("100.00")},
					{ComponentType: payroll.ComponentTypeDeduction, Code: payroll.CodeProfessionalTax, Amount: decimal.RequireFromString("10.00")},
				},
			}, nil
		}

		resp, err := d.service.GetPayslipDetail(ctx, companyID, employeeID, april2025)

		assert.NoError(t, err)
		assert.Equal(t, payroll.SourceStored, resp.Source)
		assert.Equal(t, "Old Name", resp.Employee.FullName)
		assert.Equal(t, 18, resp.WorkedDays.Total)
		assert.Equal(t, "90.00", resp.Net.StringFixed(2))
		assert.Len(t, resp.Earnings, 1)
		assert.Len(t, resp.Deductions, 1)
	})

	t.Run("computes preview without persisting", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)

		resp, err := d.service.GetPayslipDetail(ctx, companyID, employeeID, april2025)

		assert.NoError(t, err)
		assert.Equal(t, payroll.SourcePreview, resp.Source)
		assert.Equal(t, payroll.StatusDraft, resp.Status)
		assert.Equal(t, "32200.00", resp.Net.StringFixed(2))
		assert.Equal(t, 0, d.repo.upsertCalls)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("draft row falls back to preview", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		employeeOnSalary(d, employeeID)
		d.repo.findByEmployeePeriodFn = func(ctx context.Context, cid, eid string, p period.Period) (*payroll.Payroll, error) {
			return &payroll.Payroll{Status: payroll.StatusDraft}, nil
		}

		resp, err := d.service.GetPayslipDetail(ctx, companyID, employeeID, april2025)

		assert.NoError(t, err)
		assert.Equal(t, payroll.SourcePreview, resp.Source)
	})

	t.Run("invalid employee id", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()

		_, err := d.service.GetPayslipDetail(ctx, companyID, "nope", april2025)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidEmployeeID)
	})
}

func TestPayrollService_RenderPayslipPDF(t *testing.T) {
	d := setupService(t)
	defer d.db.Close()
	employeeID := uuid.NewString()
	employeeOnSalary(d, employeeID)

	data, filename, err := d.service.RenderPayslipPDF(context.Background(), uuid.NewString(), employeeID, april2025)

	assert.NoError(t, err)
	assert.Equal(t, "payslip-EMP-000001-2025-04.pdf", filename)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPayrollService_GetYearlyStatement(t *testing.T) {
	d := setupService(t)
	defer d.db.Close()
	companyID := uuid.NewString()
	employeeID := uuid.NewString()
	employeeOnSalary(d, employeeID)

	d.repo.findByEmployeeYearFn = func(ctx context.Context, cid, eid string, year int) ([]payroll.Payroll, error) {
		assert.Equal(t, 2025, year)
		return []payroll.Payroll{
			{Month: 1, Status: payroll.StatusPaid, WorkedDays: 23, GrossAmount: decimal.RequireFromString("36000"), TotalDeductions: decimal.RequireFromString("3800"), NetAmount: decimal.RequireFromString("32200")},
			{Month: 2, Status: payroll.StatusDone, WorkedDays: 20, GrossAmount: decimal.RequireFromString("1000.50"), TotalDeductions: decimal.RequireFromString("200"), NetAmount: decimal.RequireFromString("800.50")},
			{Month: 3, Status: payroll.StatusDraft, GrossAmount: decimal.RequireFromString("999")},
		}, nil
	}

	resp, err := d.service.GetYearlyStatement(context.Background(), companyID, employeeID, 2025)

	assert.NoError(t, err)
	assert.Len(t, resp.Months, 12)
	assert.True(t, resp.Months[0].HasData)
	assert.True(t, resp.Months[1].HasData)
	assert.False(t, resp.Months[2].HasData)
	assert.True(t, resp.Months[2].GrossAmount.IsZero())
	assert.False(t, resp.Months[11].HasData)
	assert.Equal(t, 2, resp.Totals.MonthsWithData)
	assert.Equal(t, "37000.50", resp.Totals.GrossAmount.StringFixed(2))
	assert.Equal(t, "4000.00", resp.Totals.TotalDeductions.StringFixed(2))
	assert.Equal(t, "33000.50", resp.Totals.NetAmount.StringFixed(2))
}

func TestPayrollService_ExportYearlyStatementXLSX(t *testing.T) {
	d := setupService(t)
	defer d.db.Close()
	employeeID := uuid.NewString()
	employeeOnSalary(d, employeeID)

	data, filename, err := d.service.ExportYearlyStatementXLSX(context.Background(), uuid.NewString(), employeeID, 2025)

	assert.NoError(t, err)
	assert.Equal(t, "salary-statement-EMP-000001-2025.xlsx", filename)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestPayrollService_GetDashboard(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	key := "payroll:dashboard:" + companyID + ":2025-04"

	t.Run("builds window and caches it", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()

		marchRun := uuid.New()
		d.payruns.findInWindowFn = func(ctx context.Context, cid string, from, to period.Period) ([]payrun.Payrun, error) {
			assert.Equal(t, "2024-11", from.String())
			assert.Equal(t, "2025-04", to.String())
			return []payrun.Payrun{{ID: marchRun, Month: 3, Year: 2025, Status: payrun.StatusClosed}}, nil
		}
		d.repo.summarizeByPeriodsFn = func(ctx context.Context, cid string, from, to period.Period) ([]payroll.PeriodSummary, error) {
			return []payroll.PeriodSummary{{Month: 3, Year: 2025, EmployerCost: decimal.NewFromInt(60000), NetAmount: decimal.NewFromInt(64400), EmployeeCount: 2}}, nil
		}
		d.profiles.warnings = []payroll.BankDetailsWarning{{EmployeeID: uuid.NewString(), FullName: "No Bank"}}

		d.redismock.ExpectGet(key).RedisNil()
		d.redismock.Regexp().ExpectSet(key, `.*`, 10*time.Minute).SetVal("OK")

		resp, err := d.service.GetDashboard(ctx, companyID, april2025)

		assert.NoError(t, err)
		assert.Equal(t, "2025-04", resp.Anchor)
		assert.Len(t, resp.Months, 6)
		assert.Equal(t, "2024-11", resp.Months[0].Period)
		march := resp.Months[4]
		assert.Equal(t, marchRun.String(), march.PayrunID)
		assert.Equal(t, payrun.StatusClosed, march.PayrunStatus)
		assert.Equal(t, int64(2), march.EmployeeCount)
		assert.Equal(t, "60000", march.EmployerCost.String())
		assert.Empty(t, resp.Months[5].PayrunID)
		assert.True(t, resp.Months[5].EmployerCost.IsZero())
		assert.Len(t, resp.Warnings, 1)
		assert.NoError(t, d.redismock.ExpectationsWereMet())
	})

	t.Run("serves cached payload", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()

		cached, _ := json.Marshal(payroll.DashboardResponse{Anchor: "2025-04", Months: []payroll.DashboardMonth{{Month: 4, Year: 2025}}})
		d.redismock.ExpectGet(key).SetVal(string(cached))
		d.repo.summarizeByPeriodsFn = func(ctx context.Context, cid string, from, to period.Period) ([]payroll.PeriodSummary, error) {
			t.Fatal("summary must not be queried on cache hit")
			return nil, nil
		}

		resp, err := d.service.GetDashboard(ctx, companyID, april2025)

		assert.NoError(t, err)
		assert.Len(t, resp.Months, 1)
		assert.NoError(t, d.redismock.ExpectationsWereMet())
	})

	t.Run("build survives a cancelled caller", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		svc := payroll.NewService(payroll.ServiceDeps{
			DB:       d.db,
			Repo:     d.repo,
			Payruns:  d.payruns,
			Profiles: d.profiles,
		})
		d.repo.summarizeByPeriodsFn = func(ctx context.Context, cid string, from, to period.Period) ([]payroll.PeriodSummary, error) {
			assert.NoError(t, ctx.Err())
			return nil, nil
		}

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		resp, err := svc.GetDashboard(cancelled, companyID, april2025)

		assert.NoError(t, err)
		assert.Len(t, resp.Months, 6)
	})

	t.Run("invalid company", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()

		_, err := d.service.GetDashboard(ctx, "x", april2025)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidCompanyID)
	})
}

func TestPayrollService_ListByPeriod(t *testing.T) {
	d := setupService(t)
	defer d.db.Close()

	d.repo.listByPeriodFn = func(ctx context.Context, cid string, p period.Period, status string) ([]payroll.Payroll, error) {
		assert.Equal(t, payroll.StatusDone, status)
		return []payroll.Payroll{{ID: uuid.New(), Status: payroll.StatusDone, Snapshot: payroll.EmployeeSnapshot{FullName: "A"}}}, nil
	}

	rows, err := d.service.ListByPeriod(context.Background(), uuid.NewString(), april2025, payroll.StatusDone)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].FullName)

	_, err = d.service.ListByPeriod(context.Background(), uuid.NewString(), april2025, "VOID")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusFilter)
}

func TestPayrollService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	id := uuid.NewString()

	t.Run("done becomes paid", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		d.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, pid string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: uuid.MustParse(id), Status: payroll.StatusDone}, nil
		}
		var updated *payroll.Payroll
		d.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			updated = p
			return nil
		}

		d.mock.ExpectBegin()
		d.mock.ExpectCommit()

		resp, err := d.service.MarkPaid(ctx, companyID, actorID, id)

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, resp.PaidAt)
		assert.Equal(t, actorID, updated.PaidBy.String())
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("draft cannot be paid", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		d.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, pid string) (*payroll.Payroll, error) {
			return &payroll.Payroll{Status: payroll.StatusDraft}, nil
		}

		d.mock.ExpectBegin()
		d.mock.ExpectRollback()

		_, err := d.service.MarkPaid(ctx, companyID, actorID, id)

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotDone)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()

		d.mock.ExpectBegin()
		d.mock.ExpectRollback()

		_, err := d.service.MarkPaid(ctx, companyID, actorID, id)

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	})
}

func TestPayrollService_ArchivePayslip(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	id := uuid.New()

	t.Run("writes pdf and records path", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		d.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, pid string) (*payroll.Payroll, error) {
			return &payroll.Payroll{
				ID: id, Month: 4, Year: 2025, Status: payroll.StatusDone,
				Snapshot: payroll.EmployeeSnapshot{EmployeeNumber: "EMP-000007", FullName: "Kiran"},
			}, nil
		}
		d.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			t.Fatal("archiving must not write the whole payroll row")
			return nil
		}
		var recordedID, recordedPath string
		var recordedAt time.Time
		d.repo.setPayslipPathFn = func(ctx context.Context, cid, pid, path string, at time.Time) error {
			assert.Equal(t, companyID, cid)
			recordedID, recordedPath, recordedAt = pid, path, at
			return nil
		}

		path, err := d.service.ArchivePayslip(ctx, companyID, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "payslip-EMP-000007-2025-04.pdf", filepath.Base(path))
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
		assert.Equal(t, id.String(), recordedID)
		assert.Equal(t, path, recordedPath)
		assert.Equal(t, time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC), recordedAt)
	})

	t.Run("path write failure is returned", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		d.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, pid string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: id, Month: 4, Year: 2025, Status: payroll.StatusPaid}, nil
		}
		d.repo.setPayslipPathFn = func(ctx context.Context, cid, pid, path string, at time.Time) error {
			return errors.New("db down")
		}

		_, err := d.service.ArchivePayslip(ctx, companyID, id.String())

		assert.EqualError(t, err, "db down")
	})

	t.Run("draft is not archivable", func(t *testing.T) {
		d := setupService(t)
		defer d.db.Close()
		d.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, pid string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: id, Status: payroll.StatusDraft}, nil
		}

		_, err := d.service.ArchivePayslip(ctx, companyID, id.String())

		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotArchivable)
	})
}
