package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"workzen/internal/events"
	"workzen/internal/messaging/kafka"
	payrollerrors "workzen/internal/payroll/errors"
	"workzen/internal/payrun"
	payrunerrors "workzen/internal/payrun/errors"
	"workzen/internal/shared/apperror"
	"workzen/internal/shared/contextutil"
	"workzen/internal/shared/period"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const maxBatchSize = 500

type Service interface {
	MarkDone(ctx context.Context, companyID, actorID string, req MarkDoneRequest) (PayslipDetailResponse, error)
	MarkDoneBatch(ctx context.Context, companyID, actorID string, req MarkDoneBatchRequest) (MarkDoneBatchResponse, error)
	GetPayslipDetail(ctx context.Context, companyID, employeeID string, p period.Period) (PayslipDetailResponse, error)
	RenderPayslipPDF(ctx context.Context, companyID, employeeID string, p period.Period) ([]byte, string, error)
	GetYearlyStatement(ctx context.Context, companyID, employeeID string, year int) (YearlyStatementResponse, error)
	ExportYearlyStatementXLSX(ctx context.Context, companyID, employeeID string, year int) ([]byte, string, error)
	GetDashboard(ctx context.Context, companyID string, anchor period.Period) (DashboardResponse, error)
	ListByPeriod(ctx context.Context, companyID string, p period.Period, status string) ([]PayrollSummaryResponse, error)
	MarkPaid(ctx context.Context, companyID, actorID, id string) (PayrollSummaryResponse, error)
	// ArchivePayslip renders the stored payslip to PayslipDir and records its path.
	ArchivePayslip(ctx context.Context, companyID, payrollID string) (string, error)
}

type ServiceDeps struct {
	DB         *sql.DB
	Repo       Repository
	Payruns    payrun.Repository
	Outbox     kafka.OutboxRepository
	Employees  EmployeeReader
	Attendance AttendanceReader
	Leaves     LeaveReader
	Profiles   ProfileReader
	Redis      *redis.Client
	CacheTTL   time.Duration
	PayslipDir string
	Now        func() time.Time
}

type service struct {
	db         *sql.DB
	repo       Repository
	payruns    payrun.Repository
	outbox     kafka.OutboxRepository
	employees  EmployeeReader
	attendance AttendanceReader
	leaves     LeaveReader
	profiles   ProfileReader
	rdb        *redis.Client
	cacheTTL   time.Duration
	payslipDir string
	now        func() time.Time
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(deps ServiceDeps, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 10 * time.Minute
	}
	if deps.PayslipDir == "" {
		deps.PayslipDir = "storage/payslips"
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		db:         deps.DB,
		repo:       deps.Repo,
		payruns:    deps.Payruns,
		outbox:     deps.Outbox,
		employees:  deps.Employees,
		attendance: deps.Attendance,
		leaves:     deps.Leaves,
		profiles:   deps.Profiles,
		rdb:        deps.Redis,
		cacheTTL:   deps.CacheTTL,
		payslipDir: deps.PayslipDir,
		now:        deps.Now,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

// ComputeWorkedDays counts present attendance plus approved paid leave weekdays inside the month.
func ComputeWorkedDays(
	ctx context.Context,
	attendance AttendanceReader,
	leaves LeaveReader,
	companyID, employeeID string,
	p period.Period,
) (WorkedDays, error) {
	from, to := p.Start(), p.End()

	present, err := attendance.CountPresentDays(ctx, companyID, employeeID, from, to)
	if err != nil {
		return WorkedDays{}, fmt.Errorf("count present days: %w", err)
	}

	ranges, err := leaves.FindApprovedPaidLeaves(ctx, companyID, employeeID, from, to)
	if err != nil {
		return WorkedDays{}, fmt.Errorf("find paid leaves: %w", err)
	}
	paid := PaidLeaveDays(p, ranges)

	return WorkedDays{
		WorkingDays:    WorkingDays(p),
		AttendanceDays: present,
		PaidLeaveDays:  paid,
		Total:          present + paid,
	}, nil
}

func (s *service) validateKeys(companyID, employeeID string, p period.Period) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidEmployeeID
	}
	if err := p.Validate(); err != nil {
		return uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidPeriod
	}
	return companyUUID, employeeUUID, nil
}

func (s *service) loadEmployee(ctx context.Context, companyID, employeeID string) (EmployeeRecord, error) {
	emp, err := s.employees.GetEmployee(ctx, companyID, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeRecord{}, payrollerrors.ErrEmployeeNotFound
	}
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeNotFound {
			return EmployeeRecord{}, payrollerrors.ErrEmployeeNotFound
		}
		return EmployeeRecord{}, err
	}
	return emp, nil
}

type computation struct {
	employee   EmployeeRecord
	bank       BankDetails
	workedDays WorkedDays
	breakdown  Breakdown
}

func (s *service) compute(ctx context.Context, companyID, employeeID string, p period.Period, emp EmployeeRecord, bank BankDetails) (computation, error) {
	wd, err := ComputeWorkedDays(ctx, s.attendance, s.leaves, companyID, employeeID, p)
	if err != nil {
		return computation{}, err
	}
	cost := EmployerCost(emp.Salary, wd.WorkingDays, wd.Total)
	return computation{
		employee:   emp,
		bank:       bank,
		workedDays: wd,
		breakdown:  ComputeBreakdown(cost),
	}, nil
}

func (s *service) MarkDone(ctx context.Context, companyID, actorID string, req MarkDoneRequest) (PayslipDetailResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	p := period.Period{Month: req.Month, Year: req.Year}

	companyUUID, employeeUUID, err := s.validateKeys(companyID, req.EmployeeID, p)
	if err != nil {
		return PayslipDetailResponse{}, err
	}

	emp, err := s.loadEmployee(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PayslipDetailResponse{}, err
	}

	bank, err := s.profiles.GetBankDetails(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PayslipDetailResponse{}, err
	}
	if !bank.Complete() {
		log.Warn("mark done rejected, bank details missing",
			zap.String("employee_id", req.EmployeeID),
			zap.String("period", p.String()),
		)
		return PayslipDetailResponse{}, payrollerrors.ErrMissingBankDetails
	}

	comp, err := s.compute(ctx, companyID, req.EmployeeID, p, emp, bank)
	if err != nil {
		log.Error("mark done compute failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayslipDetailResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipDetailResponse{}, err
	}
	defer tx.Rollback()

	actor := parseActor(actorID)
	run, err := payrun.EnsureInTx(ctx, s.payruns.WithTx(tx), companyID, actor, p)
	if err != nil {
		log.Error("mark done ensure payrun failed", zap.String("period", p.String()), zap.Error(err))
		return PayslipDetailResponse{}, err
	}
	if run.Status == payrun.StatusClosed {
		return PayslipDetailResponse{}, payrunerrors.ErrPayrunClosed
	}

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.FindByEmployeePeriod(ctx, companyID, req.EmployeeID, p)
	switch {
	case err == nil && existing.Status == StatusPaid:
		return PayslipDetailResponse{}, payrollerrors.ErrPayrollAlreadyPaid
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return PayslipDetailResponse{}, err
	}

	now := s.now().UTC()
	row := &Payroll{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		PayrunID:        run.ID,
		EmployeeID:      employeeUUID,
		Month:           p.Month,
		Year:            p.Year,
		WorkingDays:     comp.workedDays.WorkingDays,
		AttendanceDays:  comp.workedDays.AttendanceDays,
		PaidLeaveDays:   comp.workedDays.PaidLeaveDays,
		WorkedDays:      comp.workedDays.Total,
		MonthlySalary:   emp.Salary,
		EmployerCost:    comp.breakdown.EmployerCost,
		GrossAmount:     comp.breakdown.Gross,
		TotalDeductions: comp.breakdown.TotalDeductions,
		NetAmount:       comp.breakdown.Net,
		Status:          StatusDone,
		Snapshot:        buildSnapshot(emp, bank),
		MarkedDoneBy:    actor,
		MarkedDoneAt:    &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := qtx.Upsert(ctx, row); err != nil {
		log.Error("mark done upsert failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayslipDetailResponse{}, err
	}

	row.Components = componentsFromBreakdown(companyUUID, row.ID, comp.breakdown)
	if err := qtx.ReplaceComponents(ctx, companyID, row.ID.String(), row.Components); err != nil {
		log.Error("mark done replace components failed", zap.String("payroll_id", row.ID.String()), zap.Error(err))
		return PayslipDetailResponse{}, err
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(rid, "payroll", row.ID.String(),
			events.EventTypePayrollMarkedDone, events.PayrollMarkedDoneTopic,
			events.PayrollMarkedDoneEvent{
				EventType:  events.EventTypePayrollMarkedDone,
				PayrollID:  row.ID.String(),
				CompanyID:  companyID,
				EmployeeID: req.EmployeeID,
				Month:      p.Month,
				Year:       p.Year,
				NetPay:     row.NetAmount.StringFixed(2),
				MarkedBy:   actorID,
				OccurredAt: now,
			})
		if err != nil {
			return PayslipDetailResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("mark done outbox persist failed", zap.String("payroll_id", row.ID.String()), zap.Error(err))
			return PayslipDetailResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("mark done commit failed", zap.Error(err))
		return PayslipDetailResponse{}, err
	}

	s.invalidateDashboard(ctx, companyID, p)

	log.Info("payroll marked done",
		zap.String("payroll_id", row.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", p.String()),
		zap.String("net", row.NetAmount.StringFixed(2)),
	)
	return storedDetail(*row), nil
}

func (s *service) MarkDoneBatch(ctx context.Context, companyID, actorID string, req MarkDoneBatchRequest) (MarkDoneBatchResponse, error) {
	p := period.Period{Month: req.Month, Year: req.Year}
	if err := p.Validate(); err != nil {
		return MarkDoneBatchResponse{}, payrollerrors.ErrInvalidPeriod
	}

	ids := req.EmployeeIDs
	if len(ids) == 0 {
		all, err := s.employees.ListEmployeeIDs(ctx, companyID)
		if err != nil {
			return MarkDoneBatchResponse{}, err
		}
		ids = all
	}
	if len(ids) > maxBatchSize {
		return MarkDoneBatchResponse{}, payrollerrors.ErrBatchTooLarge
	}

	resp := MarkDoneBatchResponse{Period: p.String(), Results: make([]MarkDoneBatchResult, 0, len(ids))}
	for _, employeeID := range ids {
		detail, err := s.MarkDone(ctx, companyID, actorID, MarkDoneRequest{EmployeeID: employeeID, Month: p.Month, Year: p.Year})
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			resp.Failed++
			resp.Results = append(resp.Results, MarkDoneBatchResult{
				EmployeeID: employeeID,
				Error:      &BatchError{Code: httpErr.Code, Message: httpErr.Message},
			})
			continue
		}
		net := detail.Net
		resp.Succeeded++
		resp.Results = append(resp.Results, MarkDoneBatchResult{
			EmployeeID: employeeID,
			Ok:         true,
			PayrollID:  detail.PayrollID,
			NetAmount:  &net,
		})
	}

	s.logger.Info("payroll batch marked done",
		zap.String("company_id", companyID),
		zap.String("period", p.String()),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (s *service) GetPayslipDetail(ctx context.Context, companyID, employeeID string, p period.Period) (PayslipDetailResponse, error) {
	if _, _, err := s.validateKeys(companyID, employeeID, p); err != nil {
		return PayslipDetailResponse{}, err
	}

	stored, err := s.repo.FindByEmployeePeriod(ctx, companyID, employeeID, p)
	if err == nil && (stored.Status == StatusDone || stored.Status == StatusPaid) {
		return storedDetail(*stored), nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PayslipDetailResponse{}, err
	}

	emp, err := s.loadEmployee(ctx, companyID, employeeID)
	if err != nil {
		return PayslipDetailResponse{}, err
	}
	bank, err := s.profiles.GetBankDetails(ctx, companyID, employeeID)
	if err != nil {
		return PayslipDetailResponse{}, err
	}
	comp, err := s.compute(ctx, companyID, employeeID, p, emp, bank)
	if err != nil {
		return PayslipDetailResponse{}, err
	}

	return PayslipDetailResponse{
		Source:        SourcePreview,
		Status:        StatusDraft,
		Month:         p.Month,
		Year:          p.Year,
		Period:        p.String(),
		Employee:      snapshotResponse(emp.ID, buildSnapshot(emp, bank)),
		WorkedDays:    comp.workedDays,
		MonthlySalary: emp.Salary,
		Breakdown:     comp.breakdown,
	}, nil
}

func (s *service) RenderPayslipPDF(ctx context.Context, companyID, employeeID string, p period.Period) ([]byte, string, error) {
	detail, err := s.GetPayslipDetail(ctx, companyID, employeeID, p)
	if err != nil {
		return nil, "", err
	}
	data, err := RenderPayslip(detail)
	if err != nil {
		return nil, "", err
	}
	return data, payslipFilename(detail), nil
}

func (s *service) ListByPeriod(ctx context.Context, companyID string, p period.Period, status string) ([]PayrollSummaryResponse, error) {
	if err := p.Validate(); err != nil {
		return nil, payrollerrors.ErrInvalidPeriod
	}
	switch status {
	case "", StatusDraft, StatusDone, StatusPaid:
	default:
		return nil, payrollerrors.ErrInvalidStatusFilter
	}

	rows, err := s.repo.ListByPeriod(ctx, companyID, p, status)
	if err != nil {
		return nil, err
	}
	out := make([]PayrollSummaryResponse, len(rows))
	for i, r := range rows {
		out[i] = summaryResponse(r)
	}
	return out, nil
}

func (s *service) MarkPaid(ctx context.Context, companyID, actorID, id string) (PayrollSummaryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollSummaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollSummaryResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollSummaryResponse{}, err
	}
	if row.Status != StatusDone {
		return PayrollSummaryResponse{}, payrollerrors.ErrPayrollNotDone
	}

	now := s.now().UTC()
	row.Status = StatusPaid
	row.PaidAt = &now
	row.PaidBy = parseActor(actorID)

	if err := qtx.Update(ctx, row); err != nil {
		return PayrollSummaryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollSummaryResponse{}, err
	}

	s.logger.Info("payroll marked paid", zap.String("payroll_id", id), zap.String("company_id", companyID))
	return summaryResponse(*row), nil
}

func parseActor(actorID string) *uuid.UUID {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil
	}
	return &id
}

func buildSnapshot(emp EmployeeRecord, bank BankDetails) EmployeeSnapshot {
	account := bank.AccountNumber
	if account == "" {
		account = emp.BankAccountNumber
	}
	pan := bank.PANNumber
	if pan == "" {
		pan = emp.PAN
	}
	uan := bank.UANNumber
	if uan == "" {
		uan = emp.UAN
	}
	return EmployeeSnapshot{
		EmployeeNumber:    emp.EmployeeNumber,
		FullName:          emp.FullName,
		Email:             emp.Email,
		Department:        emp.Department,
		Designation:       emp.Designation,
		Location:          emp.Location,
		JoiningDate:       emp.JoiningDate,
		PAN:               pan,
		UAN:               uan,
		BankAccountNumber: account,
		BankName:          bank.BankName,
		IFSCCode:          bank.IFSCCode,
	}
}

func snapshotResponse(employeeID string, s EmployeeSnapshot) EmployeeSnapshotResponse {
	resp := EmployeeSnapshotResponse{
		EmployeeID:        employeeID,
		EmployeeNumber:    s.EmployeeNumber,
		FullName:          s.FullName,
		Email:             s.Email,
		Department:        s.Department,
		Designation:       s.Designation,
		Location:          s.Location,
		PAN:               s.PAN,
		UAN:               s.UAN,
		BankAccountNumber: s.BankAccountNumber,
		BankName:          s.BankName,
		IFSCCode:          s.IFSCCode,
	}
	if !s.JoiningDate.IsZero() {
		resp.JoiningDate = s.JoiningDate.Format("2006-01-02")
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func storedDetail(p Payroll) PayslipDetailResponse {
	return PayslipDetailResponse{
		PayrollID: p.ID.String(),
		PayrunID:  p.PayrunID.String(),
		Source:    SourceStored,
		Status:    p.Status,
		Month:     p.Month,
		Year:      p.Year,
		Period:    period.Period{Month: p.Month, Year: p.Year}.String(),
		Employee:  snapshotResponse(p.EmployeeID.String(), p.Snapshot),
		WorkedDays: WorkedDays{
			WorkingDays:    p.WorkingDays,
			AttendanceDays: p.AttendanceDays,
			PaidLeaveDays:  p.PaidLeaveDays,
			Total:          p.WorkedDays,
		},
		MonthlySalary: p.MonthlySalary,
		Breakdown: Breakdown{
			EmployerCost:    p.EmployerCost,
			Earnings:        p.earnings(),
			Deductions:      p.deductions(),
			Gross:           p.GrossAmount,
			TotalDeductions: p.TotalDeductions,
			Net:             p.NetAmount,
		},
		MarkedDoneAt: formatTime(p.MarkedDoneAt),
		PaidAt:       formatTime(p.PaidAt),
		PayslipPath:  p.PayslipPath,
	}
}

func summaryResponse(p Payroll) PayrollSummaryResponse {
	return PayrollSummaryResponse{
		ID:              p.ID.String(),
		PayrunID:        p.PayrunID.String(),
		EmployeeID:      p.EmployeeID.String(),
		EmployeeNumber:  p.Snapshot.EmployeeNumber,
		FullName:        p.Snapshot.FullName,
		Month:           p.Month,
		Year:            p.Year,
		Status:          p.Status,
		WorkedDays:      p.WorkedDays,
		EmployerCost:    p.EmployerCost,
		GrossAmount:     p.GrossAmount,
		TotalDeductions: p.TotalDeductions,
		NetAmount:       p.NetAmount,
		PaidAt:          formatTime(p.PaidAt),
	}
}
