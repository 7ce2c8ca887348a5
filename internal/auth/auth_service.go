package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "workzen/internal/auth/errors"
	"workzen/internal/rbac"
	"workzen/internal/shared/contextutil"
	"workzen/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Service interface {
	Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, companyID, userID string) (AuthResponse, error)
	// Register opens a login for an employee of the caller's company.
	Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error)
	// EnsureAdmin seeds the first administrator; an existing login with that email is left alone.
	EnsureAdmin(ctx context.Context, companyID, email, password string) error
}

type service struct {
	users    user.Repository
	accounts user.Service
	secret   []byte
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(users user.Repository, accounts user.Service, jwtSecret string, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		users:    users,
		accounts: accounts,
		secret:   []byte(jwtSecret),
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("login lookup failed", zap.Error(err))
		}
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrUserInactive
	}

	tokens, err := s.issue(u)
	if err != nil {
		log.Error("login token generation failed", zap.Error(err))
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	log.Info("login success", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return tokens, toResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userID, _ := claims["user_id"].(string)
	companyID, _ := claims["company_id"].(string)
	if _, err := uuid.Parse(userID); err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidUserID
	}

	// role and status are re-read so a demotion takes effect on the next refresh
	u, err := s.users.FindByID(ctx, companyID, userID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !u.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrUserInactive
	}

	tokens, err := s.issue(u)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	return tokens, toResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, companyID, userID string) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}
	u, err := s.users.FindByID(ctx, companyID, userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrUserNotFound
	}
	return toResponse(u), nil
}

func (s *service) Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error) {
	if _, err := rbac.ParseRole(req.Role); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}
	created, err := s.accounts.Create(ctx, companyID, user.CreateUserRequest{
		EmployeeID: req.EmployeeID,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
	})
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		ID:         created.ID,
		CompanyID:  created.CompanyID,
		EmployeeID: created.EmployeeID,
		Email:      created.Email,
		Name:       created.Name,
		Role:       created.Role,
	}, nil
}

func (s *service) EnsureAdmin(ctx context.Context, companyID, email, password string) error {
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	_, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		s.logger.Debug("admin already seeded", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := user.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &user.User{
		ID:        uuid.New(),
		CompanyID: cid,
		Name:      "Administrator",
		Email:     email,
		Password:  hashed,
		Role:      rbac.RoleAdmin.String(),
		IsActive:  true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("admin seeded", zap.String("email", email), zap.String("company_id", companyID))
	return nil
}

func (s *service) issue(u *user.User) (TokenPair, error) {
	access, err := s.sign(u, tokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(u, tokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) sign(u *user.User, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     u.ID.String(),
		"employee_id": u.EmployeeIDString(),
		"company_id":  u.CompanyID.String(),
		"role":        u.Role,
		"typ":         typ,
		"exp":         s.now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *service) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func toResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		EmployeeID: u.EmployeeIDString(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
	}
}
