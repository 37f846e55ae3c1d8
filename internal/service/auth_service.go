package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/auth"
	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// TokenIssuer issues access tokens for a user
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

// TokenRevoker invalidates an access token before it expires
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenString string) error
}

// AuthService defines the interface for account business logic
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authServiceImpl struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
	revoker  TokenRevoker
	logger   *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, issuer TokenIssuer, revoker TokenRevoker, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		issuer:   issuer,
		revoker:  revoker,
		logger:   logger,
	}
}

// Register creates an account and signs the new user in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < domain.UsernameMinLength || n > domain.UsernameMaxLength {
		return nil, response.NewValidationError(
			fmt.Sprintf("Username must be %d to %d characters long", domain.UsernameMinLength, domain.UsernameMaxLength), "")
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return nil, response.NewValidationError(
			fmt.Sprintf("Password must be at most %d bytes long", auth.MaxPasswordBytes), "")
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, response.NewConflictError("Username already exists", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check username", err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user := &domain.User{Username: username, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflictError("Username already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create user", err.Error())
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))

	resp, err := s.signIn(user)
	if err != nil {
		return nil, err
	}
	resp.Notices = []dto.Notice{{Level: dto.NoticeSuccess, Text: fmt.Sprintf("Welcome, %s!", user.Username)}}
	return resp, nil
}

// Login checks the credentials and issues a token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorizedError("Invalid username or password", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load user", err.Error())
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, response.NewUnauthorizedError("Invalid username or password", "")
	}
	return s.signIn(user)
}

// Logout revokes the token the request was made with
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	if s.revoker == nil || token == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, token); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return response.NewAppError(response.ErrCodeInternal, "Failed to log out", err.Error())
	}
	return nil
}

// GetUser returns the account behind userID
func (s *authServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, internalError(err, "Failed to load user", "User not found")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authServiceImpl) signIn(user *domain.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to issue token", err.Error())
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        toUserResponse(user),
	}, nil
}
