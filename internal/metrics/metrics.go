package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты для лейбла result
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultNotFound = "not_found"
)

// Metrics - счетчики пайплайна аватарок и логинов.
// Все методы безопасны для nil, в тестах метрики можно не создавать.
type Metrics struct {
	avatarUploads    *prometheus.CounterVec
	avatarFetches    *prometheus.CounterVec
	avatarClears     prometheus.Counter
	normalizeLatency prometheus.Histogram
	loginAttempts    *prometheus.CounterVec
	logoutEvents     prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		avatarUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_avatar_uploads_total",
				Help: "Total number of avatar uploads by result",
			},
			[]string{"result"},
		),
		avatarFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_avatar_fetches_total",
				Help: "Total number of avatar fetches by result",
			},
			[]string{"result"},
		),
		avatarClears: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "user_service_avatar_clears_total",
				Help: "Total number of avatar deletions",
			},
		),
		normalizeLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "user_service_avatar_normalize_seconds",
				Help:    "Time spent decoding, resizing and encoding avatars",
				Buckets: prometheus.DefBuckets,
			},
		),
		loginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_login_attempts_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		logoutEvents: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "user_service_logout_total",
				Help: "Total number of logout events",
			},
		),
	}
}

func (m *Metrics) AvatarUpload(result string) {
	if m == nil {
		return
	}
	m.avatarUploads.WithLabelValues(result).Inc()
}

func (m *Metrics) AvatarFetch(result string) {
	if m == nil {
		return
	}
	m.avatarFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) AvatarCleared() {
	if m == nil {
		return
	}
	m.avatarClears.Inc()
}

func (m *Metrics) ObserveNormalize(d time.Duration) {
	if m == nil {
		return
	}
	m.normalizeLatency.Observe(d.Seconds())
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) Logout() {
	if m == nil {
		return
	}
	m.logoutEvents.Inc()
}
