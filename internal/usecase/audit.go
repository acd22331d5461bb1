package usecase

import (
	"context"
	"time"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
)

// AuditPublisher интерфейс для публикации в RabbitMQ
type AuditPublisher interface {
	PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error
}

// auditSender отправляет аудит асинхронно, ошибки только логируются
type auditSender struct {
	publisher AuditPublisher
	log       *logger.Logger
	now       func() time.Time
}

func newAuditSender(publisher AuditPublisher, log *logger.Logger) auditSender {
	return auditSender{publisher: publisher, log: log, now: time.Now}
}

func (a auditSender) send(action entity.ActionType, userID int, details map[string]any) {
	if a.publisher == nil {
		return
	}

	msg := &entity.AuditMessage{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: a.now(),
	}

	// Запрос не ждет брокер
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.publisher.PublishAuditMessage(ctx, msg); err != nil {
			a.log.Warn("failed to publish audit message", "action", action, "user_id", userID, "error", err)
		}
	}()
}
