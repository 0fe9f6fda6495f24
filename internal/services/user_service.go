package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
	"tenantcrm/internal/repositories"
)

type UserService interface {
	// Register creates a tenant and its first (admin) user and signs them in.
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, p authz.Principal) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	authService  AuthService
	emailService EmailService
	logger       *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService wires the account flow. emailService may be nil, in which
// case no welcome email is sent.
func NewUserService(repo repositories.UserRepository, authService AuthService, emailService EmailService, logger *zap.Logger) UserService {
	return &userService{
		repo:         repo,
		authService:  authService,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	tenantName := strings.TrimSpace(req.TenantName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	var bad []apperrors.FieldError
	for _, f := range []struct{ name, value string }{
		{"tenantName", tenantName},
		{"email", email},
		{"firstName", firstName},
		{"lastName", lastName},
	} {
		if f.value == "" {
			bad = append(bad, apperrors.FieldError{Field: f.name, Message: "must not be empty"})
		}
	}
	if len(req.Password) < 8 {
		bad = append(bad, apperrors.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(bad) > 0 {
		return nil, apperrors.Validation(bad...)
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err, "hash password")
	}

	tenant := &models.Tenant{Name: tenantName, Domain: models.DomainFromName(tenantName)}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         authz.RoleAdmin,
	}
	if err := s.repo.CreateTenantWithAdmin(ctx, tenant, user); err != nil {
		return nil, err
	}
	s.logger.Info("tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("domain", tenant.Domain),
		zap.String("user_id", user.ID.String()),
	)

	token, err := s.authService.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err, "generate token")
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FirstName, tenant.Name); err != nil {
			// warn but do not fail registration
			s.logger.Warn("welcome email failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	return &models.AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials. Unknown email, wrong password and inactive
// account all produce the same error after a bcrypt comparison.
func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	candidates, err := s.repo.ListByEmail(ctx, req.Email, req.TenantDomain)
	if err != nil {
		return nil, err
	}

	var matched *models.User
	for i := range candidates {
		u := &candidates[i]
		if !s.authService.CheckPassword(u.PasswordHash, req.Password) {
			continue
		}
		if u.IsActive {
			matched = u
			break
		}
	}
	if len(candidates) == 0 {
		s.authService.CheckPassword(s.dummy(), req.Password)
	}
	if matched == nil {
		s.logger.Info("login failed", zap.Int("candidates", len(candidates)))
		return nil, apperrors.InvalidCredentials()
	}

	token, err := s.authService.GenerateToken(matched)
	if err != nil {
		return nil, apperrors.Internal(err, "generate token")
	}
	s.logger.Info("login succeeded",
		zap.String("tenant_id", matched.TenantID.String()),
		zap.String("user_id", matched.ID.String()),
	)
	return &models.AuthResponse{User: matched, Token: token}, nil
}

func (s *userService) Me(ctx context.Context, p authz.Principal) (*models.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, p.TenantID, p.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "account no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "account is inactive")
	}
	return user, nil
}

// dummy returns a hash of a random secret, used to keep the unknown-email
// path as slow as a real comparison.
func (s *userService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.authService.HashPassword(uuid.NewString())
		if err != nil {
			s.logger.Error("dummy hash", zap.Error(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func requirePrincipal(p authz.Principal) error {
	if !p.Valid() {
		return apperrors.ErrUnauthenticated
	}
	return nil
}
