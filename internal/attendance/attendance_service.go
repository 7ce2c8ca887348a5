package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "workzen/internal/attendance/errors"
	"workzen/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	CheckIn(ctx context.Context, companyID, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, companyID, employeeID string, req CheckOutRequest) (AttendanceResponse, error)
	// Mark records a day status on behalf of an employee, creating or overwriting the row.
	Mark(ctx context.Context, companyID, actorID string, req MarkRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error)
	CountByStatus(ctx context.Context, companyID, employeeID, status string, from, to time.Time) (int64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, now: time.Now, logger: l}
}

func (s *service) parseKeys(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidCompanyID
	}
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
	}
	return cid, eid, nil
}

func (s *service) CheckIn(ctx context.Context, companyID, employeeID string, req CheckInRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	cid, eid, err := s.parseKeys(companyID, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil {
		if existing.Status != StatusPresent {
			return AttendanceResponse{}, attendanceerrors.ErrDayAlreadyMarked
		}
		if existing.CheckIn != nil {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		// HR marked the day present without times.
		existing.CheckIn = &now
		if req.Notes != nil {
			existing.Notes = req.Notes
		}
		if err := qtx.Update(ctx, existing); err != nil {
			return AttendanceResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return AttendanceResponse{}, err
		}
		return mapToResponse(*existing), nil
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      cid,
		EmployeeID:     eid,
		AttendanceDate: today,
		CheckIn:        &now,
		Status:         StatusPresent,
		Source:         SourceSelf,
		Notes:          req.Notes,
	}
	if err := qtx.Create(ctx, row); err != nil {
		log.Error("check in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	log.Info("check in success", zap.String("employee_id", employeeID))
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, companyID, employeeID string, req CheckOutRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, _, err := s.parseKeys(companyID, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrCheckInNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.CheckIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrCheckInNotFound
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	row.CheckOut = &now
	if req.Notes != nil {
		row.Notes = req.Notes
	}
	if err := qtx.Update(ctx, row); err != nil {
		log.Error("check out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	log.Info("check out success", zap.String("employee_id", employeeID))
	return mapToResponse(*row), nil
}

func (s *service) Mark(ctx context.Context, companyID, actorID string, req MarkRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	cid, eid, err := s.parseKeys(companyID, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}
	if !ValidStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	var markedBy *uuid.UUID
	if id, err := uuid.Parse(actorID); err == nil {
		markedBy = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("mark attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, date)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = &Attendance{
			ID:             uuid.New(),
			CompanyID:      cid,
			EmployeeID:     eid,
			AttendanceDate: date,
			Status:         req.Status,
			Source:         SourceManual,
			MarkedBy:       markedBy,
			Notes:          req.Notes,
		}
		err = qtx.Create(ctx, row)
	case err == nil:
		row.Status = req.Status
		row.Source = SourceManual
		row.MarkedBy = markedBy
		if req.Status != StatusPresent {
			row.CheckIn = nil
			row.CheckOut = nil
		}
		if req.Notes != nil {
			row.Notes = req.Notes
		}
		err = qtx.Update(ctx, row)
	}
	if err != nil {
		log.Error("mark attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	log.Info("mark attendance success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		rows, err = s.repo.FindAllByCompanyAndEmployee(ctx, companyID, actorID)
	}
	if err != nil {
		s.logger.Error("get attendances failed", zap.Error(err))
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) CountByStatus(ctx context.Context, companyID, employeeID, status string, from, to time.Time) (int64, error) {
	if _, _, err := s.parseKeys(companyID, employeeID); err != nil {
		return 0, err
	}
	if !ValidStatus(status) {
		return 0, attendanceerrors.ErrInvalidStatus
	}
	if from.After(to) {
		return 0, attendanceerrors.ErrInvalidRange
	}
	return s.repo.CountByStatus(ctx, companyID, employeeID, status, from, to)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		CompanyID:      a.CompanyID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format(dateLayout),
		CheckIn:        formatTimePtr(a.CheckIn),
		CheckOut:       formatTimePtr(a.CheckOut),
		WorkedHours:    a.WorkedHours(),
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	if a.MarkedBy != nil {
		v := a.MarkedBy.String()
		resp.MarkedBy = &v
	}
	return resp
}
