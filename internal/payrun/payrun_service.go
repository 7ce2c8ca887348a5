package payrun

import (
	"context"
	"database/sql"
	"errors"
	"time"

	payrunerrors "workzen/internal/payrun/errors"
	"workzen/internal/shared/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// Ensure opens the payrun for the period if needed and is safe to call repeatedly.
	Ensure(ctx context.Context, companyID, actorID string, p period.Period) (PayrunResponse, error)
	Open(ctx context.Context, companyID, actorID string, req OpenPayrunRequest) (PayrunResponse, error)
	List(ctx context.Context, companyID string, year int) ([]PayrunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrunResponse, error)
	Close(ctx context.Context, companyID, actorID, id string) (PayrunResponse, error)
	FindInWindow(ctx context.Context, companyID string, from, to period.Period) ([]PayrunResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrun.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// EnsureInTx is the building block payroll uses to open the period's payrun inside its own
// mark-done transaction.
func EnsureInTx(ctx context.Context, repo Repository, companyID string, actorID *uuid.UUID, p period.Period) (*Payrun, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, payrunerrors.ErrInvalidCompanyID
	}
	if err := p.Validate(); err != nil {
		return nil, payrunerrors.ErrInvalidPeriod
	}
	return repo.Ensure(ctx, &Payrun{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Month:     p.Month,
		Year:      p.Year,
		Status:    StatusOpen,
		OpenedBy:  actorID,
	})
}

func (s *service) Ensure(ctx context.Context, companyID, actorID string, p period.Period) (PayrunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrunResponse{}, err
	}
	defer tx.Rollback()

	run, err := EnsureInTx(ctx, s.repo.WithTx(tx), companyID, parseActor(actorID), p)
	if err != nil {
		s.logger.Error("ensure payrun failed",
			zap.String("company_id", companyID),
			zap.String("period", p.String()),
			zap.Error(err),
		)
		return PayrunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrunResponse{}, err
	}

	s.logger.Debug("payrun ensured",
		zap.String("company_id", companyID),
		zap.String("payrun_id", run.ID.String()),
		zap.String("status", run.Status),
	)
	return mapToResponse(*run), nil
}

func (s *service) Open(ctx context.Context, companyID, actorID string, req OpenPayrunRequest) (PayrunResponse, error) {
	p, err := period.New(req.Month, req.Year)
	if err != nil {
		return PayrunResponse{}, payrunerrors.ErrInvalidPeriod
	}
	return s.Ensure(ctx, companyID, actorID, p)
}

func (s *service) List(ctx context.Context, companyID string, year int) ([]PayrunResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID, year)
	if err != nil {
		s.logger.Error("list payruns failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrunResponse, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrunResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*run), nil
}

func (s *service) Close(ctx context.Context, companyID, actorID, id string) (PayrunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	run, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrunResponse{}, mapRepositoryError(err)
	}
	if run.Status == StatusClosed {
		return PayrunResponse{}, payrunerrors.ErrPayrunAlreadyClosed
	}

	now := time.Now().UTC()
	run.Status = StatusClosed
	run.ClosedBy = parseActor(actorID)
	run.ClosedAt = &now

	if err := qtx.Update(ctx, run); err != nil {
		return PayrunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrunResponse{}, err
	}

	s.logger.Info("payrun closed",
		zap.String("payrun_id", id),
		zap.String("period", period.Period{Month: run.Month, Year: run.Year}.String()),
	)
	return mapToResponse(*run), nil
}

func (s *service) FindInWindow(ctx context.Context, companyID string, from, to period.Period) ([]PayrunResponse, error) {
	rows, err := s.repo.FindInWindow(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrunerrors.ErrPayrunNotFound
	}
	return err
}

func parseActor(actorID string) *uuid.UUID {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil
	}
	return &id
}

func uuidString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func mapToResponse(p Payrun) PayrunResponse {
	resp := PayrunResponse{
		ID:        p.ID.String(),
		CompanyID: p.CompanyID.String(),
		Month:     p.Month,
		Year:      p.Year,
		Period:    period.Period{Month: p.Month, Year: p.Year}.String(),
		Status:    p.Status,
		OpenedBy:  uuidString(p.OpenedBy),
		ClosedBy:  uuidString(p.ClosedBy),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.ClosedAt != nil {
		v := p.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}

func mapToListResponse(rows []Payrun) []PayrunResponse {
	res := make([]PayrunResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
