package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/metrics"
	"github.com/St1cky1/user-service/internal/repository"
)

// AvatarNormalizer приводит картинку к каноническому PNG
type AvatarNormalizer interface {
	Normalize(data []byte) ([]byte, error)
}

// AvatarCache - кеш поверх БД. Может быть nil, тогда читаем только из БД.
// Запись в БД только инвалидирует кеш. Заполняет его чтение, и только если
// версия не сдвинулась с момента, когда чтение началось.
type AvatarCache interface {
	Get(ctx context.Context, userID int) ([]byte, bool, error)
	Version(ctx context.Context, userID int) (int64, error)
	Fill(ctx context.Context, userID int, version int64, data []byte) (bool, error)
	Invalidate(ctx context.Context, userID int) error
}

type AvatarService struct {
	avatarRepo repository.IAvatarRepository
	normalizer AvatarNormalizer
	cache      AvatarCache
	audit      auditSender
	metrics    *metrics.Metrics
	log        *logger.Logger
}

func NewAvatarService(
	avatarRepo repository.IAvatarRepository,
	normalizer AvatarNormalizer,
	cache AvatarCache,
	publisher AuditPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *AvatarService {
	log = log.Named("avatars")
	return &AvatarService{
		avatarRepo: avatarRepo,
		normalizer: normalizer,
		cache:      cache,
		audit:      newAuditSender(publisher, log),
		metrics:    m,
		log:        log,
	}
}

// UploadAvatar нормализует файл и сохраняет его как аватарку userID
func (s *AvatarService) UploadAvatar(ctx context.Context, actorID, userID int, file *entity.UploadedFile) error {
	if actorID != userID {
		return entity.ErrForbidden
	}

	start := time.Now()
	blob, err := s.normalizer.Normalize(file.Data)
	s.metrics.ObserveNormalize(time.Since(start))
	if err != nil {
		var decodeErr *entity.DecodeError
		if errors.As(err, &decodeErr) {
			s.metrics.AvatarUpload(metrics.ResultRejected)
		} else {
			s.metrics.AvatarUpload(metrics.ResultError)
		}
		return err
	}

	if err := s.SetAvatar(ctx, actorID, userID, blob); err != nil {
		s.metrics.AvatarUpload(metrics.ResultError)
		return err
	}

	s.metrics.AvatarUpload(metrics.ResultOK)
	return nil
}

// SetAvatar заменяет аватарку целиком. Последняя запись побеждает.
func (s *AvatarService) SetAvatar(ctx context.Context, actorID, userID int, blob []byte) error {
	if actorID != userID {
		return entity.ErrForbidden
	}

	if err := s.avatarRepo.SetAvatar(ctx, userID, blob); err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return err
		}
		return &entity.PersistenceError{Op: "set avatar", Err: err}
	}

	s.invalidate(ctx, userID)

	s.audit.send(entity.ActionAvatarUpdated, userID, map[string]any{"size": len(blob)})
	return nil
}

// ClearAvatar удаляет аватарку. Удаление отсутствующей аватарки не ошибка.
func (s *AvatarService) ClearAvatar(ctx context.Context, actorID, userID int) error {
	if actorID != userID {
		return entity.ErrForbidden
	}

	if err := s.avatarRepo.ClearAvatar(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return err
		}
		return &entity.PersistenceError{Op: "clear avatar", Err: err}
	}

	s.invalidate(ctx, userID)

	s.metrics.AvatarCleared()
	s.audit.send(entity.ActionAvatarCleared, userID, nil)
	return nil
}

// GetAvatar отдает PNG. Нет пользователя и нет аватарки - одна и та же ошибка.
func (s *AvatarService) GetAvatar(ctx context.Context, userID int) (*entity.Avatar, error) {
	// версию берем до чтения из БД
	version, cacheable := int64(0), false
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn("failed to read avatar from cache", "user_id", userID, "error", err)
		} else if ok {
			s.metrics.AvatarFetch(metrics.ResultHit)
			return newAvatar(userID, data), nil
		}

		if version, err = s.cache.Version(ctx, userID); err != nil {
			s.log.Warn("failed to read avatar version", "user_id", userID, "error", err)
		} else {
			cacheable = true
		}
	}

	data, err := s.avatarRepo.GetAvatar(ctx, userID)
	if err != nil {
		s.metrics.AvatarFetch(metrics.ResultError)
		return nil, &entity.PersistenceError{Op: "get avatar", Err: err}
	}
	if len(data) == 0 {
		s.metrics.AvatarFetch(metrics.ResultNotFound)
		return nil, entity.ErrAvatarNotFound
	}

	if cacheable {
		filled, err := s.cache.Fill(ctx, userID, version, data)
		if err != nil {
			s.log.Warn("failed to cache avatar", "user_id", userID, "error", err)
		} else if !filled {
			s.log.Debug("avatar changed during fetch, cache not filled", "user_id", userID)
		}
	}

	s.metrics.AvatarFetch(metrics.ResultMiss)
	return newAvatar(userID, data), nil
}

func (s *AvatarService) invalidate(ctx context.Context, userID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate avatar cache", "user_id", userID, "error", err)
	}
}

func newAvatar(userID int, data []byte) *entity.Avatar {
	return &entity.Avatar{
		UserID:      userID,
		Data:        data,
		ContentType: entity.AvatarContentType,
	}
}
