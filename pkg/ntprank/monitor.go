package ntprank

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
)

const (
	DefaultSweepInterval = 10 * time.Minute
	DefaultCheckInterval = 30 * time.Second
)

// Monitor re-measures and re-ranks the configured servers on an interval
// and keeps the latest report. Between sweeps the current recommendation is
// health-checked; a recommendation that stops answering or stops validating
// is dropped until the next sweep replaces it.
type Monitor struct {
	Config        Config
	RequireOKRate float64
	SweepInterval time.Duration
	CheckInterval time.Duration
	Querier       Querier

	// check overrides the beevik/ntp health check in tests.
	check func(server string, timeout time.Duration) error

	mu      sync.Mutex
	ranked  []Ranked
	best    *Ranked
	updated time.Time
}

// Report is a point-in-time view of the monitor's state. Best is nil when
// no server currently qualifies.
type Report struct {
	Ranked  []Ranked
	Best    *Ranked
	Updated time.Time
}

// Run blocks until ctx is cancelled. The initial sweep must succeed; a
// failing base server at startup is a configuration problem, not a
// transient one.
func (m *Monitor) Run(ctx context.Context) error {
	sweepInterval := m.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	checkInterval := m.CheckInterval
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}

	if err := m.sweep(ctx); err != nil {
		return err
	}

	sweepTicker := time.NewTicker(sweepInterval)
	defer sweepTicker.Stop()
	checkTicker := time.NewTicker(checkInterval)
	defer checkTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sweepTicker.C:
			// The previous report stays up when a sweep fails, for
			// example when the base server is transiently down.
			if err := m.sweep(ctx); err != nil {
				info("sweep failed:", err)
			}
		case <-checkTicker.C:
			m.healthCheck()
		}
	}
}

func (m *Monitor) sweep(ctx context.Context) error {
	collector := &Collector{Querier: m.Querier, Config: m.Config.Sample}
	stats, err := collector.CollectStats(ctx, m.Config.Servers)
	if err != nil {
		return err
	}
	ranked, err := RankServers(stats, m.Config.Base, m.Config.Rank)
	if err != nil {
		return err
	}
	best, err := Recommend(ranked, m.RequireOKRate)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.ranked = ranked
	m.best = best
	m.updated = time.Now()
	m.mu.Unlock()
	return nil
}

func (m *Monitor) healthCheck() {
	m.mu.Lock()
	best := m.best
	m.mu.Unlock()
	if best == nil {
		return
	}

	check := m.check
	if check == nil {
		check = ntpCheck
	}
	if err := check(best.Server, m.Config.Sample.Timeout); err != nil {
		info("recommendation failed health check:", best.Server, err)
		m.mu.Lock()
		m.best = nil
		m.mu.Unlock()
	}
}

func ntpCheck(server string, timeout time.Duration) error {
	response, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return err
	}
	return response.Validate()
}

func (m *Monitor) Snapshot() Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := Report{Ranked: m.ranked, Updated: m.updated}
	if m.best != nil {
		best := *m.best
		report.Best = &best
	}
	return report
}
