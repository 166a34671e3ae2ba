package ntprank

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testMonitor(querier Querier) *Monitor {
	return &Monitor{
		Config: Config{
			Servers: []string{"base", "good"},
			Base:    "base",
			Sample:  testConfig(3),
			Rank:    RankOptions{WDelay: 0.2, WJitter: 0.5},
		},
		RequireOKRate: 0.8,
		Querier:       querier,
	}
}

func TestMonitorSweepPublishesReport(t *testing.T) {
	monitor := testMonitor(newServerQuerier(map[string]float64{"base": 0, "good": 1}))

	if err := monitor.sweep(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	report := monitor.Snapshot()
	if len(report.Ranked) != 1 || report.Ranked[0].Server != "good" {
		t.Fatalf("unexpected ranking: %+v", report.Ranked)
	}
	if report.Best == nil || report.Best.Server != "good" {
		t.Errorf("expected good recommended, got %+v", report.Best)
	}
	if report.Updated.IsZero() {
		t.Error("updated time not set")
	}
}

func TestMonitorSweepFailsWithoutBase(t *testing.T) {
	monitor := testMonitor(newServerQuerier(map[string]float64{"good": 1}))

	if err := monitor.sweep(context.Background()); !errors.Is(err, ErrNoBase) {
		t.Errorf("expected ErrNoBase, got %v", err)
	}
}

func TestMonitorHealthCheckDropsFailingRecommendation(t *testing.T) {
	monitor := testMonitor(newServerQuerier(map[string]float64{"base": 0, "good": 1}))
	monitor.check = func(server string, timeout time.Duration) error {
		return errors.New("kiss of death")
	}

	if err := monitor.sweep(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	monitor.healthCheck()

	report := monitor.Snapshot()
	if report.Best != nil {
		t.Errorf("failing recommendation should be dropped, got %+v", report.Best)
	}
	if len(report.Ranked) != 1 {
		t.Error("ranking itself must survive a failed health check")
	}
}

func TestMonitorHealthCheckKeepsHealthyRecommendation(t *testing.T) {
	monitor := testMonitor(newServerQuerier(map[string]float64{"base": 0, "good": 1}))
	monitor.check = func(server string, timeout time.Duration) error {
		if server != "good" {
			t.Errorf("checked wrong server: %s", server)
		}
		return nil
	}

	if err := monitor.sweep(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	monitor.healthCheck()

	if report := monitor.Snapshot(); report.Best == nil {
		t.Error("healthy recommendation must survive the check")
	}
}
