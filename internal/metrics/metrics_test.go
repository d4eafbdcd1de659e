package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSchedulingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveTransition("approve", "ok", 0.01)
	m.ObserveTransition("approve", "ok", 0.02)
	m.ObserveTransition("approve", "invalid_transition", 0.01)
	m.ObserveClaimConflict("create")
	m.ObserveGenerated(3, 1)
	m.ObserveGenerated(0, 0)
	m.ObserveNotifyFailure("cancel")

	if got := testutil.ToFloat64(m.transitions.WithLabelValues("approve", "ok")); got != 2 {
		t.Fatalf("transitions ok = %v", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("approve", "invalid_transition")); got != 1 {
		t.Fatalf("transitions invalid = %v", got)
	}
	if got := testutil.ToFloat64(m.claimConflicts.WithLabelValues("create")); got != 1 {
		t.Fatalf("claim conflicts = %v", got)
	}
	if got := testutil.ToFloat64(m.slotsGenerated); got != 3 {
		t.Fatalf("generated = %v", got)
	}
	if got := testutil.ToFloat64(m.configConflicts); got != 1 {
		t.Fatalf("config conflicts = %v", got)
	}
	if got := testutil.ToFloat64(m.notifyFailures.WithLabelValues("cancel")); got != 1 {
		t.Fatalf("notify failures = %v", got)
	}
	if n := testutil.CollectAndCount(m.operationLatency); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
}

func TestSchedulingMetrics_NilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveTransition("approve", "ok", 1)
	m.ObserveClaimConflict("create")
	m.ObserveGenerated(1, 1)
	m.ObserveNotifyFailure("cancel")
}
