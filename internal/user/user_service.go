package user

import (
	"context"
	"errors"
	"strings"

	"workzen/internal/employee"
	"workzen/internal/rbac"
	"workzen/internal/shared/contextutil"
	usererrors "workzen/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EmployeeFinder is satisfied by employee.Repository.
type EmployeeFinder interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error)
}

type Service interface {
	GetAll(ctx context.Context, companyID string) ([]UserResponse, error)
	GetByID(ctx context.Context, companyID, id string) (UserResponse, error)
	Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error)
	ChangeRole(ctx context.Context, companyID, actorUserID, id, role string) (UserResponse, error)
	ToggleStatus(ctx context.Context, companyID, actorUserID, id string, isActive bool) error
	ChangePassword(ctx context.Context, companyID, userID, currentPassword, newPassword string) error
	ForceResetPassword(ctx context.Context, companyID, id, newPassword string) error
}

type service struct {
	repo      Repository
	employees EmployeeFinder
	logger    *zap.Logger
}

func NewService(repo Repository, employees EmployeeFinder, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, employees: employees, logger: l}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) find(ctx context.Context, companyID, id string) (*User, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, usererrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (UserResponse, error) {
	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

// Create opens a login for an existing employee of the company.
func (s *service) Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	cid, err := uuid.Parse(companyID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidCompanyID
	}
	eid, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidEmployeeID
	}
	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	empl, err := s.employees.FindByIDAndCompany(ctx, companyID, eid.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrEmployeeNotInCompany
		}
		return UserResponse{}, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Error("create user hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		ID:         uuid.New(),
		CompanyID:  cid,
		EmployeeID: &eid,
		Name:       empl.FullName,
		Role:       role.String(),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hashed,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		log.Error("create user persist failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	log.Info("create user success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)
	u.Employee = &UserEmployee{ID: empl.ID, EmployeeNumber: empl.EmployeeNumber, FullName: empl.FullName}
	return mapToResponse(*u), nil
}

func (s *service) ChangeRole(ctx context.Context, companyID, actorUserID, id, role string) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	parsed, err := rbac.ParseRole(role)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidRole
	}
	if actorUserID == id {
		return UserResponse{}, usererrors.ErrSelfModification
	}

	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, err
	}
	previous := u.Role
	u.Role = parsed.String()
	if err := s.repo.Update(ctx, u); err != nil {
		log.Error("change role persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	log.Info("change role success",
		zap.String("user_id", id),
		zap.String("from", previous),
		zap.String("to", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, companyID, actorUserID, id string, isActive bool) error {
	log := contextutil.GetLogger(ctx, s.logger)

	if actorUserID == id {
		return usererrors.ErrSelfModification
	}
	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return err
	}

	u.IsActive = isActive
	if err := s.repo.Update(ctx, u); err != nil {
		log.Error("toggle user status failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, companyID, userID, currentPassword, newPassword string) error {
	u, err := s.find(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}
	return s.setPassword(ctx, u, newPassword)
}

func (s *service) ForceResetPassword(ctx context.Context, companyID, id, newPassword string) error {
	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, u, newPassword)
}

func (s *service) setPassword(ctx context.Context, u *User, password string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("hash new password failed", zap.Error(err))
		return err
	}
	u.Password = hashed
	if err := s.repo.Update(ctx, u); err != nil {
		log.Error("update password failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return err
	}
	log.Info("password updated", zap.String("user_id", u.ID.String()))
	return nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		EmployeeID: u.EmployeeIDString(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.Employee != nil {
		resp.EmployeeNumber = u.Employee.EmployeeNumber
		resp.FullName = u.Employee.FullName
	}
	return resp
}
