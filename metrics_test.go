package warden

import (
	"context"
	"testing"
)

func TestMetricsDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{})
	m.Inc(MetricLoginSuccess)
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics must not count")
	}
	if len(m.Snapshot().Counters) != 0 {
		t.Fatal("disabled metrics snapshot must be empty")
	}
}

func TestMetricsCount(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginFailure)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("expected 2 login successes, got %d", got)
	}
	snap := m.Snapshot()
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("expected 1 login failure, got %d", snap.Counters[MetricLoginFailure])
	}
}

func TestMetricsIgnoreOutOfRangeIDs(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount)
	if m.Value(metricIDCount) != 0 {
		t.Fatal("out of range ids must be ignored")
	}
}

func TestEngineCountsOperations(t *testing.T) {
	trigger := &stubTrigger{failOn: map[string]bool{}}
	cfg := testConfigIn(t.TempDir())
	cfg.Metrics.Enabled = true

	engine, err := New().
		WithConfig(cfg).
		WithTrigger(trigger).
		WithWalletInitializer(&stubWallet{}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()
	ctx := context.Background()

	if _, err := engine.Register(ctx, "alice", "password1234", testSeedWords()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := engine.Login(ctx, "wrong password"); err == nil {
		t.Fatal("expected login failure")
	}
	if _, err := engine.Login(ctx, "password1234"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricRegisterSuccess] != 1 {
		t.Fatalf("expected 1 register success, got %d", snap.Counters[MetricRegisterSuccess])
	}
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("expected 1 login success, got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("expected 1 login failure, got %d", snap.Counters[MetricLoginFailure])
	}
	if snap.Counters[MetricTokenIssued] != 2 {
		t.Fatalf("expected 2 issued tokens, got %d", snap.Counters[MetricTokenIssued])
	}
}
