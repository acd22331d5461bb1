package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/auth"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/infrastructure/validator"
	"github.com/St1cky1/user-service/internal/repository"
)

// profileSetter переносит одно поле из тела запроса в UpdateProfileRequest
type profileSetter func(req *entity.UpdateProfileRequest, raw json.RawMessage) error

// Только эти поля можно менять через PATCH
var profileSetters = map[string]profileSetter{
	"name": func(req *entity.UpdateProfileRequest, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return entity.NewValidationError("name is invalid")
		}
		v = strings.TrimSpace(v)
		req.Name = &v
		return nil
	},
	"email": func(req *entity.UpdateProfileRequest, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return entity.NewValidationError("email is invalid")
		}
		v = normalizeEmail(v)
		req.Email = &v
		return nil
	},
	"password": func(req *entity.UpdateProfileRequest, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return entity.NewValidationError("password is invalid")
		}
		req.Password = &v
		return nil
	},
	"age": func(req *entity.UpdateProfileRequest, raw json.RawMessage) error {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return entity.NewValidationError("age is invalid")
		}
		req.Age = &v
		return nil
	},
}

type UserService struct {
	userRepo        repository.IUserRepository
	passwordManager *auth.PasswordManager
	validator       *validator.Validator
	cache           AvatarCache
	audit           auditSender
	log             *logger.Logger
}

func NewUserService(
	userRepo repository.IUserRepository,
	passwordManager *auth.PasswordManager,
	cache AvatarCache,
	publisher AuditPublisher,
	log *logger.Logger,
) *UserService {
	log = log.Named("users")
	return &UserService{
		userRepo:        userRepo,
		passwordManager: passwordManager,
		validator:       validator.New(),
		cache:           cache,
		audit:           newAuditSender(publisher, log),
		log:             log,
	}
}

// UpdateProfile применяет PATCH. Любой ключ вне белого списка отклоняет весь запрос.
func (s *UserService) UpdateProfile(ctx context.Context, user *entity.User, fields map[string]json.RawMessage) (*entity.User, error) {
	for key := range fields {
		if _, ok := profileSetters[key]; !ok {
			return nil, entity.ErrInvalidUpdate
		}
	}

	var req entity.UpdateProfileRequest
	for key, raw := range fields {
		if err := profileSetters[key](&req, raw); err != nil {
			return nil, err
		}
	}

	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	update := &entity.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	}
	if req.Password != nil {
		hash, err := s.passwordManager.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	// Пустой PATCH ничего не меняет и отдает текущий профиль
	if update.IsEmpty() {
		return user, nil
	}

	updated, err := s.userRepo.UpdateProfile(ctx, user.ID, update)
	if err != nil {
		if errors.Is(err, entity.ErrEmailTaken) {
			return nil, err
		}
		return nil, &entity.PersistenceError{Op: "update user", Err: err}
	}
	if updated == nil {
		return nil, entity.ErrUserNotFound
	}

	s.audit.send(entity.ActionUserUpdated, user.ID, map[string]any{"fields": changedFields(fields)})

	return updated, nil
}

// DeleteUser удаляет пользователя вместе с аватаркой
func (s *UserService) DeleteUser(ctx context.Context, userID int) (*entity.User, error) {
	user, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return nil, &entity.PersistenceError{Op: "delete user", Err: err}
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("failed to invalidate avatar cache", "user_id", userID, "error", err)
		}
	}

	s.audit.send(entity.ActionUserDeleted, userID, map[string]any{"email": user.Email})

	return user, nil
}

func changedFields(fields map[string]json.RawMessage) []string {
	names := make([]string, 0, len(fields))
	for _, key := range []string{"name", "email", "password", "age"} {
		if _, ok := fields[key]; ok {
			names = append(names, key)
		}
	}
	return names
}
