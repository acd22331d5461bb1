package entity

import "time"

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"` // Никогда не отправляем пароль
	Tokens       []string  `json:"-"` // sha256 хеши активных сессий
	AvatarSet    bool      `json:"-"` // сами байты аватарки в профиль не грузим
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAvatar - есть ли у пользователя аватарка
func (u *User) HasAvatar() bool {
	return u.AvatarSet
}

// HasToken проверяет, что хеш токена входит в набор сессий
func (u *User) HasToken(tokenHash string) bool {
	for _, t := range u.Tokens {
		if t == tokenHash {
			return true
		}
	}
	return false
}

// Регистрация
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,max=255,nopassword"`
	Age      int    `json:"age" validate:"gte=0"`
}

// Логин
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest - разрешенные для изменения поля.
// nil означает, что поле не передано.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=7,max=255,nopassword"`
	Age      *int    `json:"age" validate:"omitnil,gte=0"`
}

// ProfileUpdate - то, что реально пишется в БД (пароль уже захеширован)
type ProfileUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Age          *int
}

// IsEmpty - нечего обновлять
func (u *ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil && u.Age == nil
}

// JWT Claims
type JWTClaims struct {
	UserID  int    `json:"user_id"`
	Email   string `json:"email"`
	TokenID string `json:"jti"`
}
