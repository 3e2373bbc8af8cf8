package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"fund-investment-service/internal/database"
	"fund-investment-service/internal/idgen"
)

// UserRepository is the slice of the database layer the auth service needs.
type UserRepository interface {
	CreateUser(ctx context.Context, user *database.User) error
	GetUserByEmail(ctx context.Context, email string) (*database.User, error)
	GetUserByID(ctx context.Context, id string) (*database.User, error)
}

// Service handles authentication operations: registration, login, and token
// refresh. It supplies the authenticated userId every core operation runs
// under.
type Service struct {
	repo            UserRepository
	jwtManager      *JWTManager
	passwordManager *PasswordManager
	logger          zerolog.Logger
}

// NewService creates a new authentication service
func NewService(repo UserRepository, cfg Config, logger zerolog.Logger) *Service {
	if cfg.AccessTokenDuration == 0 {
		cfg.AccessTokenDuration = 15 * time.Minute
	}
	if cfg.RefreshTokenDuration == 0 {
		cfg.RefreshTokenDuration = 7 * 24 * time.Hour
	}
	return &Service{
		repo:            repo,
		jwtManager:      NewJWTManager(cfg.JWTSecret, cfg.AccessTokenDuration, cfg.RefreshTokenDuration),
		passwordManager: NewPasswordManager(cfg.BcryptCost),
		logger:          logger.With().Str("component", "auth").Logger(),
	}
}

// JWTManager exposes the token manager for middleware wiring.
func (s *Service) JWTManager() *JWTManager {
	return s.jwtManager
}

// Register creates a new user account. The pre-check keeps the common case
// cheap; the unique index backs it up when two registrations race.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		ID:           idgen.NewID(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")

	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.passwordManager.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	claims := UserClaims{UserID: user.ID, Email: user.Email, Role: user.Role}
	accessToken, err := s.jwtManager.GenerateAccessToken(claims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(claims)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &LoginResponse{
		User: UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenDuration().Seconds()),
	}, nil
}

// Refresh validates a refresh token and issues a fresh token pair for a
// still-existing account.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenClaims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, tokenClaims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	claims := UserClaims{UserID: user.ID, Email: user.Email, Role: user.Role}
	accessToken, err := s.jwtManager.GenerateAccessToken(claims)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(claims)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenDuration().Seconds()),
		TokenType:    "Bearer",
	}, nil
}
