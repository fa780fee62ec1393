package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/app/repositories"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
	"github.com/clicksapp/clicks/internal/pkg/auth"
	"github.com/clicksapp/clicks/internal/pkg/logger"
	"github.com/clicksapp/clicks/internal/pkg/validation"
)

// UserStore is the persistence surface AuthService needs for accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// TokenStore is the persistence surface AuthService needs for refresh tokens
type TokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	FindByToken(ctx context.Context, token string) (*repositories.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

// AuthService defines authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

type authService struct {
	users    UserStore
	profiles ProfileStore
	tokens   TokenStore
	jwt      *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, profiles ProfileStore, tokens TokenStore, jwtService *auth.JWTService) AuthService {
	return &authService{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		jwt:      jwtService,
	}
}

// Register creates a new account and signs the user in
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	verr := apperrors.NewValidationError()
	if !validation.CompiledPatterns.Email.MatchString(email) {
		verr.Add("email", "must be a valid email address")
	}
	if len(req.Password) < validation.PasswordMinLength {
		verr.Add("password", "must be at least 8 characters")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check email availability")
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		IsActive: true,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			logger.Error().Err(err).Str("email", email).Msg("Failed to create user")
		}
		return nil, err
	}

	logger.Info().Int64("userId", user.ID).Msg("User registered")

	return s.issueAuthResponse(ctx, user)
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.Error().Err(err).Msg("Failed to look up user for login")
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is informational.
		logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to update last login time")
	}

	logger.Info().Int64("userId", user.ID).Msg("User logged in")

	return s.issueAuthResponse(ctx, user)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The presented token is revoked so each refresh token is single use.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		logger.Error().Err(err).Msg("Failed to revoke used refresh token")
		return nil, err
	}

	token, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return token, nil
}

// Logout revokes the given refresh token
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.Revoke(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		logger.Error().Err(err).Msg("Failed to revoke refresh token")
		return err
	}
	return nil
}

// GetCurrentUser returns the authenticated user's account with profile
func (s *authService) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := mapUserToResponse(user)

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
	} else {
		pr := mapProfileToResponse(profile)
		resp.Profile = &pr
	}

	return &resp, nil
}

func (s *authService) issueAuthResponse(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	token, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *token,
		User:  mapUserToResponse(user),
	}, nil
}

func (s *authService) issueTokenPair(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		logger.Error().Err(err).Int64("userId", user.ID).Msg("Failed to generate token pair")
		return nil, err
	}

	if err := s.tokens.Create(ctx, user.ID, refreshToken, s.jwt.GetRefreshTokenExpiry()); err != nil {
		logger.Error().Err(err).Int64("userId", user.ID).Msg("Failed to persist refresh token")
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}

func mapUserToResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
