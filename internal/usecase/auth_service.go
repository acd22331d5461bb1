package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/auth"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/infrastructure/validator"
	"github.com/St1cky1/user-service/internal/metrics"
	"github.com/St1cky1/user-service/internal/repository"
)

type AuthService struct {
	userRepo        repository.IUserRepository
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	validator       *validator.Validator
	audit           auditSender
	metrics         *metrics.Metrics
	log             *logger.Logger
}

func NewAuthService(
	userRepo repository.IUserRepository,
	passwordManager *auth.PasswordManager,
	jwtManager *auth.JWTManager,
	publisher AuditPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *AuthService {
	log = log.Named("auth")
	return &AuthService{
		userRepo:        userRepo,
		passwordManager: passwordManager,
		jwtManager:      jwtManager,
		validator:       validator.New(),
		audit:           newAuditSender(publisher, log),
		metrics:         m,
		log:             log,
	}
}

// Register регистрирует нового пользователя и сразу выдает токен
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.LoginResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Хешируем пароль
	passwordHash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		Age:          req.Age,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, entity.ErrEmailTaken) {
			return nil, err
		}
		return nil, &entity.PersistenceError{Op: "create user", Err: err}
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.send(entity.ActionUserCreated, user.ID, map[string]any{"email": user.Email})

	return &entity.LoginResponse{User: user, Token: token}, nil
}

// Login проверяет email и пароль
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		s.metrics.LoginAttempt(metrics.ResultError)
		return nil, &entity.PersistenceError{Op: "get user by email", Err: err}
	}
	if user == nil || !s.passwordManager.VerifyPassword(user.PasswordHash, req.Password) {
		s.metrics.LoginAttempt(metrics.ResultRejected)
		return nil, entity.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		s.metrics.LoginAttempt(metrics.ResultError)
		return nil, err
	}

	s.metrics.LoginAttempt(metrics.ResultOK)
	return &entity.LoginResponse{User: user, Token: token}, nil
}

// Authenticate - токен валиден и все еще есть в наборе сессий пользователя
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		s.log.Debug("token rejected", "error", err)
		return nil, entity.ErrUnauthorized
	}

	user, err := s.userRepo.GetById(ctx, claims.UserID)
	if err != nil {
		return nil, &entity.PersistenceError{Op: "get user", Err: err}
	}
	if user == nil || !user.HasToken(auth.HashToken(token)) {
		return nil, entity.ErrUnauthorized
	}

	return user, nil
}

// Logout убирает только текущую сессию
func (s *AuthService) Logout(ctx context.Context, user *entity.User, token string) error {
	if err := s.userRepo.RemoveToken(ctx, user.ID, auth.HashToken(token)); err != nil {
		return &entity.PersistenceError{Op: "remove token", Err: err}
	}
	s.metrics.Logout()
	return nil
}

// LogoutAll закрывает все сессии пользователя
func (s *AuthService) LogoutAll(ctx context.Context, user *entity.User) error {
	if err := s.userRepo.ClearTokens(ctx, user.ID); err != nil {
		return &entity.PersistenceError{Op: "clear tokens", Err: err}
	}
	s.metrics.Logout()
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, user *entity.User) (string, error) {
	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	tokenHash := auth.HashToken(token)
	if err := s.userRepo.AddToken(ctx, user.ID, tokenHash); err != nil {
		return "", &entity.PersistenceError{Op: "save token", Err: err}
	}
	user.Tokens = append(user.Tokens, tokenHash)

	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
