package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error)
	ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
}

// Service is the main auth service with dependencies
type Service struct {
	repo       RepositoryAPI
	tokens     TokenGenerator
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokens TokenGenerator, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.repo.GetCredentialsByEmail(ctx, strings.ToLower(dto.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		s.logger.Error("failed to load credentials", "error", err)
		return AuthTokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !creds.CanSignIn() {
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.logger.Info("user authenticated", "user_id", creds.UserID, "role", creds.RoleName)
	return s.issue(creds.Subject())
}

// RefreshTokens validates the refresh token and re-reads the user so that
// role changes and deactivation take effect on the next pair.
func (s *Service) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return AuthTokens{}, tokenError(err)
	}

	creds, err := s.repo.GetCredentialsByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidToken
		}
		return AuthTokens{}, err
	}

	if !creds.CanSignIn() {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(creds.Subject())
}

// ForgotPassword publishes a reset request for known, active accounts.
// Unknown emails succeed silently so the endpoint cannot be used to probe
// for accounts.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	creds, err := s.repo.GetCredentialsByEmail(ctx, strings.ToLower(dto.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !creds.CanSignIn() {
		return nil
	}

	token, expiresAt, err := s.tokens.GenerateResetToken(creds.UserID)
	if err != nil {
		return internal.NewInternalError("failed to issue reset token", err)
	}

	event := events.NewPasswordResetRequestedEvent(creds.UserID, creds.Email, creds.FirstName, token, expiresAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish password reset event", "user_id", creds.UserID, "error", err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	userID, err := s.tokens.ValidateResetToken(dto.Token)
	if err != nil {
		return tokenError(err)
	}

	if _, err := s.repo.GetCredentialsByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return internal.ErrInvalidToken
		}
		return err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.logger.Error("failed to update password", "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("password reset", "user_id", userID)
	return nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issue(sub Subject) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(sub)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(sub)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func tokenError(err error) error {
	if errors.Is(err, ErrTokenExpired) {
		return internal.ErrTokenExpired
	}
	return internal.ErrInvalidToken
}

// GenerateRandomToken generates a cryptographically secure random token
// of n bytes, hex encoded.
func GenerateRandomToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
