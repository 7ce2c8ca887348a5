package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	profileerrors "workzen/internal/profile/errors"
	"workzen/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	GetByEmployee(ctx context.Context, companyID, employeeID string) (ProfileResponse, error)
	GetMine(ctx context.Context, companyID, actorID string) (ProfileResponse, error)
	// Upsert is the HR path: it may create the profile and touch every field.
	Upsert(ctx context.Context, companyID, employeeID string, req UpsertProfileRequest) (ProfileResponse, error)
	UpdateMine(ctx context.Context, companyID, actorID string, req UpdateMyProfileRequest) (ProfileResponse, error)
	// EnsureForEmployee is idempotent; it is driven by the employee lifecycle consumer.
	EnsureForEmployee(ctx context.Context, companyID, employeeID string) error
	FindAllByCompany(ctx context.Context, companyID string) ([]ProfileResponse, error)
	HasBankDetails(ctx context.Context, companyID, employeeID string) (bool, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func parseKeys(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, profileerrors.ErrInvalidCompanyID
	}
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, profileerrors.ErrInvalidEmployeeID
	}
	return cid, eid, nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string) (ProfileResponse, error) {
	if _, _, err := parseKeys(companyID, employeeID); err != nil {
		return ProfileResponse{}, err
	}
	p, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, profileerrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) GetMine(ctx context.Context, companyID, actorID string) (ProfileResponse, error) {
	return s.GetByEmployee(ctx, companyID, actorID)
}

func (s *service) Upsert(ctx context.Context, companyID, employeeID string, req UpsertProfileRequest) (ProfileResponse, error) {
	return s.save(ctx, companyID, employeeID, req, true)
}

func (s *service) UpdateMine(ctx context.Context, companyID, actorID string, req UpdateMyProfileRequest) (ProfileResponse, error) {
	return s.save(ctx, companyID, actorID, UpsertProfileRequest(req), false)
}

func (s *service) save(ctx context.Context, companyID, employeeID string, req UpsertProfileRequest, allowCreate bool) (ProfileResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	cid, eid, err := parseKeys(companyID, employeeID)
	if err != nil {
		return ProfileResponse{}, err
	}
	var dob *time.Time
	if req.DateOfBirth != "" {
		t, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return ProfileResponse{}, profileerrors.ErrInvalidDateOfBirth
		}
		dob = &t
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("save profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, err
		}
		if !allowCreate {
			return ProfileResponse{}, profileerrors.ErrProfileNotFound
		}
		belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, employeeID)
		if err != nil {
			return ProfileResponse{}, err
		}
		if !belongs {
			return ProfileResponse{}, profileerrors.ErrEmployeeNotInCompany
		}
		p = &Profile{ID: uuid.New(), CompanyID: cid, EmployeeID: eid}
	}

	p.DateOfBirth = dob
	p.Address = strings.TrimSpace(req.Address)
	p.EmergencyContact = strings.TrimSpace(req.EmergencyContact)
	p.AccountNumber = strings.TrimSpace(req.AccountNumber)
	p.BankName = strings.TrimSpace(req.BankName)
	p.IFSCCode = strings.ToUpper(strings.TrimSpace(req.IFSCCode))
	p.PANNumber = strings.ToUpper(strings.TrimSpace(req.PANNumber))
	p.UANNumber = strings.TrimSpace(req.UANNumber)

	if err := qtx.Save(ctx, p); err != nil {
		log.Error("save profile persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return ProfileResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("save profile commit failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	log.Info("save profile success",
		zap.String("employee_id", employeeID),
		zap.Bool("has_bank_details", p.HasBankDetails()),
	)
	return mapToResponse(*p), nil
}

func (s *service) EnsureForEmployee(ctx context.Context, companyID, employeeID string) error {
	cid, eid, err := parseKeys(companyID, employeeID)
	if err != nil {
		return err
	}
	if err := s.repo.EnsureForEmployee(ctx, &Profile{ID: uuid.New(), CompanyID: cid, EmployeeID: eid}); err != nil {
		s.logger.Error("ensure profile failed", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) FindAllByCompany(ctx context.Context, companyID string) ([]ProfileResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	res := make([]ProfileResponse, len(rows))
	for i, p := range rows {
		res[i] = mapToResponse(p)
	}
	return res, nil
}

func (s *service) HasBankDetails(ctx context.Context, companyID, employeeID string) (bool, error) {
	if _, _, err := parseKeys(companyID, employeeID); err != nil {
		return false, err
	}
	p, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.HasBankDetails(), nil
}

func mapToResponse(p Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:               p.ID.String(),
		CompanyID:        p.CompanyID.String(),
		EmployeeID:       p.EmployeeID.String(),
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
		AccountNumber:    p.AccountNumber,
		BankName:         p.BankName,
		IFSCCode:         p.IFSCCode,
		PANNumber:        p.PANNumber,
		UANNumber:        p.UANNumber,
		HasBankDetails:   p.HasBankDetails(),
	}
	if p.DateOfBirth != nil {
		resp.DateOfBirth = p.DateOfBirth.Format(dateLayout)
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	if p.Employee != nil {
		resp.EmployeeNumber = p.Employee.EmployeeNumber
		resp.FullName = p.Employee.FullName
	}
	return resp
}
