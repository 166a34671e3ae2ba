package ntprank

import (
	"context"
	"fmt"
	"math"
	"time"
)

// ServerStats aggregates repeated measurements of one server. OK+Fail always
// equals the number of requested samples; the numeric fields are meaningful
// only when OK > 0.
type ServerStats struct {
	Server      string
	OK          int
	Fail        int
	AvgOffsetMS float64
	StdOffsetMS float64
	AvgDelayMS  float64
	StdDelayMS  float64
}

type SampleConfig struct {
	Samples      int
	Timeout      time.Duration
	SleepBetween time.Duration
}

func (c SampleConfig) validate() error {
	if c.Samples < 1 {
		return fmt.Errorf("samples must be >= 1, got %d", c.Samples)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}
	if c.SleepBetween < 0 {
		return fmt.Errorf("sleep between samples must be >= 0, got %v", c.SleepBetween)
	}
	return nil
}

// Sampler runs repeated exchanges against a single server, pacing attempts
// with Config.SleepBetween so one host is never burst.
type Sampler struct {
	Querier  Querier
	Config   SampleConfig
	Progress chan<- struct{}
}

// Sample runs Config.Samples sequential exchanges. Per-attempt failures are
// counted, never propagated; cancelling ctx counts the remaining attempts as
// failures and keeps whatever was already measured.
func (s *Sampler) Sample(ctx context.Context, server string) (ServerStats, error) {
	if err := s.Config.validate(); err != nil {
		return ServerStats{}, err
	}

	querier := s.Querier
	if querier == nil {
		querier = &Client{}
	}

	stats := ServerStats{Server: server}
	var offsets, delays []float64

	for i := 0; i < s.Config.Samples; i++ {
		if ctx.Err() != nil {
			stats.Fail += s.Config.Samples - i
			break
		}

		sample, err := querier.Query(server, s.Config.Timeout)
		if err != nil {
			stats.Fail++
			debug("sample failed:", server, err)
		} else {
			stats.OK++
			offsets = append(offsets, sample.OffsetMS)
			delays = append(delays, sample.DelayMS)
		}
		s.progressed()

		if i != s.Config.Samples-1 && s.Config.SleepBetween > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.Config.SleepBetween):
			}
		}
	}

	if stats.OK > 0 {
		stats.AvgOffsetMS = mean(offsets)
		stats.StdOffsetMS = stddev(offsets)
		stats.AvgDelayMS = mean(delays)
		stats.StdDelayMS = stddev(delays)
	}
	return stats, nil
}

func (s *Sampler) progressed() {
	if s.Progress == nil {
		return
	}
	select {
	case s.Progress <- struct{}{}:
	default:
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation, zero for a single value.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - avg) * (v - avg)
	}
	return math.Sqrt(sum / float64(len(values)))
}
