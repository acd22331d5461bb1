package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	GRPCPort string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	MigrationsPath string

	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string
	AuditQueue       string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AvatarCacheTTL time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	AvatarMaxBytes int64
	AvatarEdge     int

	LogLevel  string
	LogFormat string
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// .env не обязателен, в контейнере все приходит через окружение
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),
		GRPCPort: getEnvOrDefault("GRPC_PORT", "9090"),

		DBHost:         getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:         getEnvOrDefault("DB_PORT", "5432"),
		DBUser:         getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:     getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "users"),
		DBSSLMode:      getEnvOrDefault("DB_SSLMODE", "disable"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "file://migrations"),

		RabbitMQHost:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnvOrDefault("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnvOrDefault("RABBITMQ_PASSWORD", "guest"),
		AuditQueue:       getEnvOrDefault("AUDIT_QUEUE", "user_audit_logs"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getEnvOrDefault("JWT_SECRET_KEY", "your-secret-key-change-in-production"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.RedisDB, err = getIntOrDefault("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.AvatarCacheTTL, err = getDurationOrDefault("AVATAR_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDurationOrDefault("TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	maxBytes, err := getIntOrDefault("AVATAR_MAX_BYTES", 1000000)
	if err != nil {
		return nil, err
	}
	cfg.AvatarMaxBytes = int64(maxBytes)
	if cfg.AvatarEdge, err = getIntOrDefault("AVATAR_EDGE", 250); err != nil {
		return nil, err
	}

	if cfg.AvatarMaxBytes <= 0 {
		return nil, fmt.Errorf("AVATAR_MAX_BYTES must be positive, got %d", cfg.AvatarMaxBytes)
	}
	if cfg.AvatarEdge <= 0 {
		return nil, fmt.Errorf("AVATAR_EDGE must be positive, got %d", cfg.AvatarEdge)
	}

	return cfg, nil
}

// DatabaseURL - строка подключения для pgx и migrate
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RabbitMQUser, c.RabbitMQPassword, c.RabbitMQHost, c.RabbitMQPort)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
