package ntprank

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// GradeFor buckets a score into a letter grade. Lower scores are better;
// nothing grades below D.
func GradeFor(score float64) Grade {
	switch {
	case score <= 5:
		return GradeA
	case score <= 10:
		return GradeB
	case score <= 20:
		return GradeC
	default:
		return GradeD
	}
}

// Ranked is one server's standing relative to the base server.
type Ranked struct {
	Server      string
	OK          int
	Fail        int
	AvgOffsetMS float64
	StdOffsetMS float64
	AvgDelayMS  float64
	StdDelayMS  float64
	VsBaseMS    float64
	Score       float64
	Grade       Grade
}

type RankOptions struct {
	WDelay     float64
	WJitter    float64
	MaxDelayMS float64 // 0 disables the delay cutoff
}

func DefaultRankOptions() RankOptions {
	return RankOptions{WDelay: 0.20, WJitter: 0.50, MaxDelayMS: 100}
}

// ErrNoBase means the base server is missing from the stats or never
// produced a successful measurement, so no ranking reference exists.
var ErrNoBase = errors.New("no usable stats for base server")

// RankServers scores every non-base server with at least one successful
// measurement against the base and returns them sorted ascending by score,
// ties broken by server name. Servers whose average delay exceeds
// opts.MaxDelayMS are dropped entirely.
func RankServers(stats map[string]ServerStats, base string, opts RankOptions) ([]Ranked, error) {
	if opts.WDelay < 0 || opts.WJitter < 0 {
		return nil, fmt.Errorf("weights must be >= 0, got delay=%v jitter=%v", opts.WDelay, opts.WJitter)
	}
	if opts.MaxDelayMS < 0 {
		return nil, fmt.Errorf("max delay must be > 0 or 0 to disable, got %v", opts.MaxDelayMS)
	}

	baseStats, found := stats[base]
	if !found || baseStats.OK == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoBase, base)
	}

	ranked := []Ranked{}
	for server, st := range stats {
		if server == base || st.OK == 0 {
			continue
		}
		if opts.MaxDelayMS > 0 && st.AvgDelayMS > opts.MaxDelayMS {
			continue
		}

		vsBase := st.AvgOffsetMS - baseStats.AvgOffsetMS
		score := math.Abs(vsBase) + opts.WDelay*st.AvgDelayMS + opts.WJitter*st.StdOffsetMS

		ranked = append(ranked, Ranked{
			Server:      server,
			OK:          st.OK,
			Fail:        st.Fail,
			AvgOffsetMS: st.AvgOffsetMS,
			StdOffsetMS: st.StdOffsetMS,
			AvgDelayMS:  st.AvgDelayMS,
			StdDelayMS:  st.StdDelayMS,
			VsBaseMS:    vsBase,
			Score:       score,
			Grade:       GradeFor(score),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score < ranked[j].Score
		}
		return ranked[i].Server < ranked[j].Server
	})
	return ranked, nil
}
