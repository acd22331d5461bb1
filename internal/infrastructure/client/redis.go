package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const avatarKeyPrefix = "avatar:"

// Ключ версии живет дольше данных
const versionTTLMargin = time.Hour

// Кладем данные, только если с начала чтения из БД никто не писал
const fillScript = `
	local v = redis.call("GET", KEYS[2])
	if not v then
		v = "0"
	end
	if v == ARGV[1] then
		redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
		return 1
	end
	return 0
`

const invalidateScript = `
	redis.call("INCR", KEYS[2])
	redis.call("PEXPIRE", KEYS[2], ARGV[1])
	return redis.call("DEL", KEYS[1])
`

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AvatarCache - кеш нормализованных аватарок, ключ avatar:<user_id>
type AvatarCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvatarCache(ctx context.Context, cfg RedisConfig, ttl time.Duration) (*AvatarCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &AvatarCache{client: client, ttl: ttl}, nil
}

// Фигурные скобки держат данные и версию в одном слоте кластера
func avatarKey(userID int) string {
	return avatarKeyPrefix + "{" + strconv.Itoa(userID) + "}"
}

func versionKey(userID int) string {
	return avatarKey(userID) + ":ver"
}

// Get возвращает (nil, false, nil), если ключа нет
func (c *AvatarCache) Get(ctx context.Context, userID int) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, avatarKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error get avatar %d from cache: %w", userID, err)
	}
	return data, true, nil
}

// Version - текущая версия аватарки, 0 если записей еще не было
func (c *AvatarCache) Version(ctx context.Context, userID int) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("error get avatar %d version: %w", userID, err)
	}
	return v, nil
}

// Fill кладет прочитанное из БД значение, если версия не поменялась.
// false значит, что между чтением и записью в кеш аватарку успели изменить.
func (c *AvatarCache) Fill(ctx context.Context, userID int, version int64, data []byte) (bool, error) {
	keys := []string{avatarKey(userID), versionKey(userID)}
	result, err := c.client.Eval(ctx, fillScript, keys,
		strconv.FormatInt(version, 10), data, c.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("error saving avatar %d to cache: %w", userID, err)
	}
	return result == 1, nil
}

// Invalidate сдвигает версию и удаляет данные одной операцией
func (c *AvatarCache) Invalidate(ctx context.Context, userID int) error {
	keys := []string{avatarKey(userID), versionKey(userID)}
	ttl := c.ttl + versionTTLMargin
	if err := c.client.Eval(ctx, invalidateScript, keys, ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("error invalidating key %s: %w", avatarKey(userID), err)
	}
	return nil
}

func (c *AvatarCache) Close() error {
	return c.client.Close()
}
