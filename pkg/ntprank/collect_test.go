package ntprank

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// serverQuerier answers per server: listed servers succeed with a fixed
// offset, everything else fails.
type serverQuerier struct {
	mu      sync.Mutex
	calls   map[string]int
	offsets map[string]float64
}

func newServerQuerier(offsets map[string]float64) *serverQuerier {
	return &serverQuerier{calls: map[string]int{}, offsets: offsets}
}

func (q *serverQuerier) Query(server string, timeout time.Duration) (Sample, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.calls[server]++
	offset, found := q.offsets[server]
	if !found {
		return Sample{}, errors.New("unreachable")
	}
	return Sample{OffsetMS: offset, DelayMS: 5, Time: time.Now()}, nil
}

func (q *serverQuerier) callCount(server string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls[server]
}

func TestCollectStatsOneEntryPerDistinctServer(t *testing.T) {
	querier := newServerQuerier(map[string]float64{"a": 1, "b": 2})
	collector := &Collector{Querier: querier, Config: testConfig(3)}

	stats, err := collector.CollectStats(context.Background(), []string{"a", "b", "a"})
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stats))
	}
	for _, server := range []string{"a", "b"} {
		entry := stats[server]
		if entry.Server != server {
			t.Errorf("missing entry for %q", server)
		}
		if entry.OK+entry.Fail != 3 {
			t.Errorf("%s: ok+fail = %d, want 3", server, entry.OK+entry.Fail)
		}
		if querier.callCount(server) != 3 {
			t.Errorf("%s queried %d times, want 3", server, querier.callCount(server))
		}
	}
}

func TestCollectStatsIsolatesFailingServers(t *testing.T) {
	querier := newServerQuerier(map[string]float64{"up": 1.5})
	collector := &Collector{Querier: querier, Config: testConfig(3)}

	stats, err := collector.CollectStats(context.Background(), []string{"up", "down"})
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if stats["down"].OK != 0 || stats["down"].Fail != 3 {
		t.Errorf("down: expected 0/3, got %d/%d", stats["down"].OK, stats["down"].Fail)
	}
	if stats["up"].OK != 3 || !almostEqual(stats["up"].AvgOffsetMS, 1.5) {
		t.Errorf("up unaffected? got %+v", stats["up"])
	}
}

func TestCollectStatsValidatesBeforeQuerying(t *testing.T) {
	querier := newServerQuerier(map[string]float64{"a": 1})
	collector := &Collector{Querier: querier, Config: SampleConfig{Samples: 0, Timeout: time.Second}}

	if _, err := collector.CollectStats(context.Background(), []string{"a"}); err == nil {
		t.Error("expected parameter error")
	}
	if querier.callCount("a") != 0 {
		t.Error("no network activity expected on parameter error")
	}
}
