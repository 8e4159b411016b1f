package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/gcaccess/door-gateway/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockConn struct {
	connected bool
}

func (m *mockConn) IsConnected() bool { return m.connected }

func newTestChecker(p health.Pinger, status, action health.Connected) *health.Checker {
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	return health.NewChecker(p, status, action, logger, reg)
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c := newTestChecker(&mockPinger{err: errors.New("db down")}, &mockConn{}, &mockConn{})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_AllDependenciesUp(t *testing.T) {
	c := newTestChecker(&mockPinger{}, &mockConn{connected: true}, &mockConn{connected: true})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	for _, dep := range []string{"postgres", "mqtt_status", "mqtt_action"} {
		check, ok := result.Checks[dep]
		if !ok {
			t.Fatalf("missing %s check", dep)
		}
		if check.Status != "up" {
			t.Errorf("%s status = %s, want up", dep, check.Status)
		}
	}
}

func TestReadiness_PostgresDown(t *testing.T) {
	c := newTestChecker(&mockPinger{err: errors.New("connection refused")},
		&mockConn{connected: true}, &mockConn{connected: true})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	if result.Checks["postgres"].Status != "down" {
		t.Error("postgres check should be down")
	}
	if result.Checks["postgres"].Error == "" {
		t.Error("postgres check should carry the error")
	}
}

func TestReadiness_BrokerDown(t *testing.T) {
	c := newTestChecker(&mockPinger{}, &mockConn{connected: true}, &mockConn{connected: false})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	if result.Checks["mqtt_action"].Status != "down" {
		t.Error("mqtt_action check should be down")
	}
	if result.Checks["mqtt_status"].Status != "up" {
		t.Error("mqtt_status check should stay up")
	}
}
