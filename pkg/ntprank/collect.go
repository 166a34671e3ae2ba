package ntprank

import (
	"context"
)

// Collector measures a list of servers independently, one sampler per
// server. Samplers run concurrently since they share no state; pacing stays
// sequential inside each server's sampler.
type Collector struct {
	Querier  Querier
	Config   SampleConfig
	Progress chan<- struct{}
}

// CollectStats returns exactly one ServerStats per distinct input server.
// A server that never answers still gets an entry, with OK == 0; one
// server's failure never affects the others.
func (c *Collector) CollectStats(ctx context.Context, servers []string) (map[string]ServerStats, error) {
	if err := c.Config.validate(); err != nil {
		return nil, err
	}

	distinct := make([]string, 0, len(servers))
	seen := make(map[string]bool, len(servers))
	for _, server := range servers {
		if !seen[server] {
			seen[server] = true
			distinct = append(distinct, server)
		}
	}

	results := make(chan ServerStats, len(distinct))
	for _, server := range distinct {
		sampler := &Sampler{Querier: c.Querier, Config: c.Config, Progress: c.Progress}
		go func(server string) {
			stats, _ := sampler.Sample(ctx, server) // config already validated
			results <- stats
		}(server)
	}

	stats := make(map[string]ServerStats, len(distinct))
	for range distinct {
		result := <-results
		stats[result.Server] = result
	}
	return stats, nil
}

// CollectStats measures servers over UDP with the given sampling config.
func CollectStats(ctx context.Context, servers []string, config SampleConfig) (map[string]ServerStats, error) {
	collector := &Collector{Config: config}
	return collector.CollectStats(ctx, servers)
}
