package handlers

import (
	"context"
	"encoding/json"

	"github.com/St1cky1/user-service/internal/entity"
)

// AuthUseCase - то, что хендлерам нужно от usecase.AuthService
type AuthUseCase interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.LoginResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
	Logout(ctx context.Context, user *entity.User, token string) error
	LogoutAll(ctx context.Context, user *entity.User) error
}

type UserUseCase interface {
	UpdateProfile(ctx context.Context, user *entity.User, fields map[string]json.RawMessage) (*entity.User, error)
	DeleteUser(ctx context.Context, userID int) (*entity.User, error)
}

type AvatarUseCase interface {
	UploadAvatar(ctx context.Context, actorID, userID int, file *entity.UploadedFile) error
	ClearAvatar(ctx context.Context, actorID, userID int) error
	GetAvatar(ctx context.Context, userID int) (*entity.Avatar, error)
}
