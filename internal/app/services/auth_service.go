package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
	"github.com/weiting/stellact/internal/pkg/auth"
	"github.com/weiting/stellact/internal/pkg/helpers"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.UserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new account and signs a session token for it
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.logger.Debug().
		Str("email", email).
		Msg("Registering new user")

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).
			Str("email", email).
			Msg("Failed to check existing email")
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultAvatarURL(req.Name)
	}

	user := &models.User{
		ID:           helpers.NewID("user"),
		Name:         req.Name,
		Email:        email,
		Avatar:       avatar,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).
			Str("email", email).
			Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		s.logger.Error().Err(err).
			Str("userID", user.ID).
			Msg("Failed to generate token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info().
		Str("userID", user.ID).
		Str("email", email).
		Msg("User registered")

	return &dto.AuthResponse{Token: token, User: user}, nil
}

// Login validates credentials and signs a session token. Unknown email and
// wrong password return the same error so callers cannot probe for accounts.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.logger.Debug().
		Str("email", email).
		Msg("User logging in")

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).
			Str("email", email).
			Msg("Failed to look up user")
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		s.logger.Error().Err(err).
			Str("userID", user.ID).
			Msg("Failed to generate token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{Token: token, User: user}, nil
}

// Me returns the public record of the authenticated user
func (s *authServiceImpl) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("userID", userID).
			Msg("Failed to get user")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return &dto.MeResponse{User: user}, nil
}

// defaultAvatarURL builds a generated avatar for accounts registered without
// one, matching the style of the seeded demo users.
func defaultAvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}
