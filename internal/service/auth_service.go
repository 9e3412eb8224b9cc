package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password so callers cannot tell which one failed.
var ErrInvalidCredentials = apperrors.NewUnauthorized("invalid email or password")

// RegisterInput carries the fields supplied at sign-up.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	credentials auth.CredentialPolicy
	tokens      *auth.TokenManager
	adminEmail  string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, credentials auth.CredentialPolicy) *AuthService {
	adminEmail := cfg.Store.AdminEmail
	if adminEmail == "" {
		adminEmail = config.DefaultAdminEmail
	}
	if credentials == nil {
		credentials = auth.NewCredentialPolicy(cfg.Auth)
	}
	return &AuthService{
		users:       users,
		credentials: credentials,
		tokens:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		adminEmail:  adminEmail,
	}
}

// Register creates a new account. Uniqueness of the email is left to the
// store constraint; a clash surfaces as repository.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	stored, err := s.credentials.Encode(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   stored,
		Department: in.Department,
		Role:       domain.RoleForEmail(in.Email, s.adminEmail),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns the account matching email and password. Both credential
// policies load by email and compare through CredentialPolicy.Verify.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.credentials.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for an authenticated user.
func (s *AuthService) IssueToken(user *domain.User) (string, time.Time, error) {
	return s.tokens.GenerateToken(user)
}

// Tokens exposes the token manager used by the HTTP middleware.
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokens
}
