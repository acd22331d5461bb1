package api

import (
	"context"
	"net/http"
	"time"

	"github.com/St1cky1/user-service/internal/api/handlers"
	"github.com/St1cky1/user-service/internal/api/middleware"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthService - логин/логаут и проверка токена в одном сервисе
type AuthService interface {
	handlers.AuthUseCase
	middleware.Authenticator
}

// Deps - все, что нужно роутеру
type Deps struct {
	Auth           AuthService
	Users          handlers.UserUseCase
	Avatars        handlers.AvatarUseCase
	AvatarMaxBytes int64
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	HealthCheck    func(ctx context.Context) error
	Logger         *logger.Logger
}

func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Logger)
	avatarHandler := handlers.NewAvatarHandler(deps.Avatars, deps.AvatarMaxBytes, deps.Metrics, deps.Logger)

	r.Get("/healthz", healthz(deps.HealthCheck))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Маршруты плоские, без Mount: GET /users/me/avatar должен дойти до {id} и отдать 404
	r.Post("/users", authHandler.Signup)
	r.Post("/users/login", authHandler.Login)
	r.Get("/users/{id}/avatar", avatarHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Auth))

		r.Post("/users/logout", authHandler.Logout)
		r.Post("/users/logoutAll", authHandler.LogoutAll)

		r.Get("/users/me", userHandler.Me)
		r.Patch("/users/me", userHandler.Update)
		r.Delete("/users/me", userHandler.Delete)

		r.Post("/users/me/avatar", avatarHandler.Upload)
		r.Delete("/users/me/avatar", avatarHandler.Delete)
		r.Post("/users/me/avatar/delete", avatarHandler.Delete)
	})

	return r
}

func healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
