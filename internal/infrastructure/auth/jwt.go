package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTypeAccess = "access"

type JWTManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewJWTManager(secretKey string, ttl time.Duration) *JWTManager {
	if secretKey == "" {
		secretKey = "your-secret-key-change-in-production" // Default для разработки
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// GenerateAccessToken генерирует сессионный токен.
// jti делает токены уникальными даже при двух логинах в одну секунду.
func (m *JWTManager) GenerateAccessToken(userID int, email string) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     now.Add(m.ttl).Unix(),
		"iat":     now.Unix(),
		"type":    tokenTypeAccess,
		"jti":     uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken проверяет подпись, срок и тип токена
func (m *JWTManager) ValidateAccessToken(tokenString string) (*entity.JWTClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	// Проверяем тип токена
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != tokenTypeAccess {
		return nil, errors.New("invalid token type")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid user_id in token")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, errors.New("invalid email in token")
	}

	tokenID, _ := claims["jti"].(string)

	return &entity.JWTClaims{
		UserID:  int(userID),
		Email:   email,
		TokenID: tokenID,
	}, nil
}

// HashToken - в БД храним только sha256 от токена
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
