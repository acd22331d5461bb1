package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

const consumerTag = "audit_worker"

// AuditWorker читает аудит из очереди и пишет его в user_audit
type AuditWorker struct {
	url       string
	queueName string
	auditRepo repository.IAuditRepository
	log       *logger.Logger
}

func NewAuditWorker(url, queueName string, auditRepo repository.IAuditRepository, log *logger.Logger) *AuditWorker {
	return &AuditWorker{
		url:       url,
		queueName: queueName,
		auditRepo: auditRepo,
		log:       log.Named("audit_worker"),
	}
}

// Start блокируется до отмены ctx или закрытия канала
func (w *AuditWorker) Start(ctx context.Context) error {
	// Отдельное соединение и канал для consumer'а
	conn, err := amqp.Dial(w.url)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	// Убеждаемся, что очередь существует
	_, err = channel.QueueDeclare(
		w.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := channel.Consume(
		w.queueName, // queue
		consumerTag, // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	w.log.Info("audit worker started", "queue", w.queueName)
	return w.consume(ctx, msgs)
}

func (w *AuditWorker) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("audit worker stopped")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.processMessage(ctx, msg)
		}
	}
}

func (w *AuditWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	// 1. Парсим сообщение
	var auditMsg entity.AuditMessage
	if err := json.Unmarshal(msg.Body, &auditMsg); err != nil {
		w.log.Error("failed to parse audit message", "error", err)
		_ = msg.Nack(false, false) // битое сообщение обратно не возвращаем
		return
	}

	// 2. Конвертируем в UserAudit
	audit, err := toUserAudit(&auditMsg)
	if err != nil {
		w.log.Error("failed to convert audit message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	// 3. Сохраняем в БД
	if err := w.auditRepo.Create(ctx, audit); err != nil {
		w.log.Error("failed to save audit", "action", audit.Action, "user_id", audit.UserID, "error", err)
		_ = msg.Nack(false, true) // вернется в очередь
		return
	}

	// 4. Подтверждаем обработку
	_ = msg.Ack(false)
	w.log.Debug("audit saved", "action", audit.Action, "user_id", audit.UserID)
}

func toUserAudit(msg *entity.AuditMessage) (*entity.UserAudit, error) {
	var details *string
	if msg.Details != nil {
		raw, err := json.Marshal(msg.Details)
		if err != nil {
			return nil, err
		}
		s := string(raw)
		details = &s
	}

	return &entity.UserAudit{
		UserID:    msg.UserID,
		Action:    msg.Action,
		Details:   details,
		ChangedAt: msg.Timestamp,
	}, nil
}
