package repository

import (
	"context"

	"github.com/St1cky1/user-service/internal/entity"
)

// IUserRepository - интерфейс для UserRepository.
// Get* возвращают nil, nil если пользователя нет.
type IUserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetById(ctx context.Context, id int) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id int, update *entity.ProfileUpdate) (*entity.User, error)
	Delete(ctx context.Context, id int) (*entity.User, error)

	AddToken(ctx context.Context, id int, tokenHash string) error
	RemoveToken(ctx context.Context, id int, tokenHash string) error
	ClearTokens(ctx context.Context, id int) error
}

// IAvatarRepository - аватарка живет в колонке avatar таблицы "user"
type IAvatarRepository interface {
	SetAvatar(ctx context.Context, userID int, data []byte) error
	ClearAvatar(ctx context.Context, userID int) error
	GetAvatar(ctx context.Context, userID int) ([]byte, error)
	ListWithoutAvatar(ctx context.Context) ([]int, error)
}

// IAuditRepository - интерфейс для AuditRepository
type IAuditRepository interface {
	Create(ctx context.Context, audit *entity.UserAudit) error
}
