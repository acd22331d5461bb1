package entity

import (
	"time"
)

type ActionType string

const (
	ActionUserCreated   ActionType = "user.created"
	ActionUserUpdated   ActionType = "user.updated"
	ActionUserDeleted   ActionType = "user.deleted"
	ActionAvatarUpdated ActionType = "avatar.updated"
	ActionAvatarCleared ActionType = "avatar.cleared"
)

// UserAudit - запись в таблице user_audit
type UserAudit struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Action    ActionType `json:"action"`
	Details   *string    `json:"details"`
	ChangedAt time.Time  `json:"changed_at"`
}

// AuditMessage - сообщение, которое уходит в RabbitMQ
type AuditMessage struct {
	UserID    int            `json:"user_id"`
	Action    ActionType     `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
