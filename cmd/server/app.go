package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/St1cky1/user-service/internal/api"
	grpcapi "github.com/St1cky1/user-service/internal/api/grpc"
	"github.com/St1cky1/user-service/internal/config"
	"github.com/St1cky1/user-service/internal/infrastructure/auth"
	"github.com/St1cky1/user-service/internal/infrastructure/client"
	"github.com/St1cky1/user-service/internal/infrastructure/imageproc"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/metrics"
	"github.com/St1cky1/user-service/internal/repository"
	"github.com/St1cky1/user-service/internal/usecase"
	"github.com/St1cky1/user-service/internal/worker"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	healthInterval  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat), nil
}

func runServe(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Запускаем миграции
	if err := migrateDB(cfg, "up", log); err != nil {
		return err
	}

	db, err := client.NewPostgresClient(ctx, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to postgres", "host", cfg.DBHost, "db", cfg.DBName)

	// Без RabbitMQ сервис работает, просто без аудита
	var publisher usecase.AuditPublisher
	rabbitMQ, err := client.NewRabbitMQClient(cfg.RabbitMQURL(), cfg.AuditQueue, log)
	if err != nil {
		log.Warn("rabbitmq unavailable, audit disabled", "error", err)
	} else {
		defer rabbitMQ.Close()
		publisher = rabbitMQ
		log.Info("connected to rabbitmq", "queue", cfg.AuditQueue)
	}

	cache, closeCache := newAvatarCache(ctx, cfg, log)
	defer closeCache()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Инициализируем репозитории
	userRepo := repository.NewUserRepository(db.GetPool())
	auditRepo := repository.NewAuditRepository(db.GetPool())

	// Инициализируем сервисы
	passwords := auth.NewPasswordManager()
	authService := usecase.NewAuthService(userRepo, passwords, auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL), publisher, m, log)
	userService := usecase.NewUserService(userRepo, passwords, cache, publisher, log)
	avatarService := usecase.NewAvatarService(userRepo, imageproc.NewNormalizer(cfg.AvatarEdge), cache, publisher, m, log)

	router := api.NewRouter(api.Deps{
		Auth:           authService,
		Users:          userService,
		Avatars:        avatarService,
		AvatarMaxBytes: cfg.AvatarMaxBytes,
		Metrics:        m,
		Gatherer:       reg,
		HealthCheck:    db.HealthCheck,
		Logger:         log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	grpcServer := grpcapi.NewGRPCServer(log)

	var wg sync.WaitGroup

	if rabbitMQ != nil {
		auditWorker := worker.NewAuditWorker(cfg.RabbitMQURL(), cfg.AuditQueue, auditRepo, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := auditWorker.Start(ctx); err != nil {
				log.Error("audit worker stopped", "error", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		grpcServer.WatchHealth(ctx, db.HealthCheck, healthInterval)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := grpcServer.Start(cfg.GRPCPort); err != nil {
			log.Error("gRPC server error", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ждем сигнал завершения
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			log.Error("HTTP server error", "error", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.Stop()
	wg.Wait()

	log.Info("stopped")
	return nil
}

func runMigrate(direction string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	return migrateDB(cfg, direction, log)
}

func runImportAvatars(ctx context.Context, dir string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := client.NewPostgresClient(ctx, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	cache, closeCache := newAvatarCache(ctx, cfg, log)
	defer closeCache()

	userRepo := repository.NewUserRepository(db.GetPool())
	avatarService := usecase.NewAvatarService(userRepo, imageproc.NewNormalizer(cfg.AvatarEdge), cache, nil, nil, log)
	importer := usecase.NewAvatarImporter(avatarService, userRepo, cfg.AvatarMaxBytes, log)

	report, err := importer.Import(ctx, dir)
	if report != nil {
		fmt.Fprintf(os.Stdout, "users: %d, imported: %d, skipped: %d, failed: %d, took %s\n",
			report.Users, report.Imported, report.Skipped, report.Failed, report.Duration.Round(time.Millisecond))
	}
	return err
}

// newAvatarCache возвращает nil, если Redis не настроен или недоступен.
// Закрывать соединение нужно через второй результат.
func newAvatarCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (usecase.AvatarCache, func()) {
	noop := func() {}
	if cfg.RedisAddr == "" {
		return nil, noop
	}

	cache, err := client.NewAvatarCache(ctx, client.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.AvatarCacheTTL)
	if err != nil {
		log.Warn("redis unavailable, avatar cache disabled", "error", err)
		return nil, noop
	}

	log.Info("avatar cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.AvatarCacheTTL)
	return cache, func() {
		if err := cache.Close(); err != nil {
			log.Warn("failed to close redis", "error", err)
		}
	}
}

func migrateDB(cfg *config.Config, direction string, log *logger.Logger) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	log.Info("migrations applied", "direction", direction)
	return nil
}
