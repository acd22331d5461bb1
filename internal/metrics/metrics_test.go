package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AvatarUpload(ResultOK)
	m.AvatarUpload(ResultOK)
	m.AvatarUpload(ResultRejected)
	m.AvatarFetch(ResultMiss)
	m.AvatarCleared()
	m.ObserveNormalize(10 * time.Millisecond)

	if got := testutil.ToFloat64(m.avatarUploads.WithLabelValues(ResultOK)); got != 2 {
		t.Errorf("Expected 2 ok uploads, got %v", got)
	}
	if got := testutil.ToFloat64(m.avatarUploads.WithLabelValues(ResultRejected)); got != 1 {
		t.Errorf("Expected 1 rejected upload, got %v", got)
	}
	if got := testutil.ToFloat64(m.avatarClears); got != 1 {
		t.Errorf("Expected 1 clear, got %v", got)
	}
	if got := testutil.CollectAndCount(m.normalizeLatency); got != 1 {
		t.Errorf("Expected 1 histogram series, got %d", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.AvatarUpload(ResultOK)
	m.AvatarFetch(ResultHit)
	m.AvatarCleared()
	m.ObserveNormalize(time.Second)
	m.LoginAttempt(ResultError)
	m.Logout()
}
