package ntprank

import (
	"errors"
	"testing"
)

func measured(server string, offset, jitter, delay float64) ServerStats {
	return ServerStats{
		Server:      server,
		OK:          5,
		AvgOffsetMS: offset,
		StdOffsetMS: jitter,
		AvgDelayMS:  delay,
	}
}

func TestRankScoring(t *testing.T) {
	stats := map[string]ServerStats{
		"A": measured("A", -0.8, 0.3, 12.1),
		"B": measured("B", 0.0, 0.1, 5.0),
	}

	ranked, err := RankServers(stats, "B", RankOptions{WDelay: 0.2, WJitter: 0.5})
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}

	if len(ranked) != 1 || ranked[0].Server != "A" {
		t.Fatalf("expected only A ranked, got %+v", ranked)
	}
	if !almostEqual(ranked[0].VsBaseMS, -0.8) {
		t.Errorf("expected vs_base -0.8, got %v", ranked[0].VsBaseMS)
	}
	// 0.8 + 0.2*12.1 + 0.5*0.3
	if !almostEqual(ranked[0].Score, 3.41) {
		t.Errorf("expected score 3.41, got %v", ranked[0].Score)
	}
	if ranked[0].Grade != GradeA {
		t.Errorf("expected grade A, got %s", ranked[0].Grade)
	}
}

func TestRankSortsByScoreWithNameTieBreak(t *testing.T) {
	stats := map[string]ServerStats{
		"base": measured("base", 0, 0, 10),
		"zeta": measured("zeta", 1, 0, 10),
		"alfa": measured("alfa", 1, 0, 10),
		"near": measured("near", 0.1, 0, 10),
	}
	opts := RankOptions{WDelay: 0, WJitter: 0}

	first, err := RankServers(stats, "base", opts)
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	second, err := RankServers(stats, "base", opts)
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}

	want := []string{"near", "alfa", "zeta"}
	for i, server := range want {
		if first[i].Server != server {
			t.Fatalf("expected order %v, got %+v", want, first)
		}
		if second[i].Server != server {
			t.Error("ranking not deterministic across runs")
		}
	}
}

func TestRankExcludesServersOverMaxDelay(t *testing.T) {
	stats := map[string]ServerStats{
		"base":     measured("base", 0, 0, 10),
		"fast":     measured("fast", 1, 0, 5),
		"boundary": measured("boundary", 1, 0, 100),
		"slow":     measured("slow", 0.5, 0, 200),
	}

	ranked, err := RankServers(stats, "base", RankOptions{MaxDelayMS: 100})
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}

	for _, r := range ranked {
		if r.Server == "slow" {
			t.Error("server over max delay must be excluded")
		}
	}
	found := map[string]bool{}
	for _, r := range ranked {
		found[r.Server] = true
	}
	// Exactly at the cutoff stays in.
	if !found["fast"] || !found["boundary"] {
		t.Errorf("expected fast and boundary ranked, got %+v", ranked)
	}
}

func TestRankExcludesUnmeasuredServers(t *testing.T) {
	dead := ServerStats{Server: "dead", Fail: 5}
	stats := map[string]ServerStats{
		"base": measured("base", 0, 0, 10),
		"live": measured("live", 1, 0, 10),
		"dead": dead,
	}

	ranked, err := RankServers(stats, "base", RankOptions{})
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}

	if len(ranked) != 1 || ranked[0].Server != "live" {
		t.Errorf("expected only live ranked, got %+v", ranked)
	}
}

func TestRankMissingOrDeadBase(t *testing.T) {
	stats := map[string]ServerStats{
		"up":   measured("up", 0, 0, 10),
		"dead": {Server: "dead", Fail: 5},
	}

	if _, err := RankServers(stats, "nonexistent", RankOptions{}); !errors.Is(err, ErrNoBase) {
		t.Errorf("expected ErrNoBase for missing base, got %v", err)
	}
	if _, err := RankServers(stats, "dead", RankOptions{}); !errors.Is(err, ErrNoBase) {
		t.Errorf("expected ErrNoBase for base with no measurements, got %v", err)
	}
}

func TestRankValidatesOptions(t *testing.T) {
	stats := map[string]ServerStats{"base": measured("base", 0, 0, 10)}

	invalid := []RankOptions{
		{WDelay: -0.1},
		{WJitter: -0.1},
		{MaxDelayMS: -1},
	}
	for _, opts := range invalid {
		if _, err := RankServers(stats, "base", opts); err == nil {
			t.Errorf("expected parameter error for %+v", opts)
		}
	}
}

func TestRankDelayWeightMonotonic(t *testing.T) {
	stats := map[string]ServerStats{
		"base": measured("base", 0, 0, 1),
		"low":  measured("low", 1, 0, 5),
		"high": measured("high", 1, 0, 50),
	}

	gap := func(wDelay float64) float64 {
		ranked, err := RankServers(stats, "base", RankOptions{WDelay: wDelay})
		if err != nil {
			t.Fatalf("rank failed: %v", err)
		}
		scores := map[string]float64{}
		for _, r := range ranked {
			scores[r.Server] = r.Score
		}
		return scores["high"] - scores["low"]
	}

	if gap(0.5) <= gap(0.1) {
		t.Error("raising the delay weight must widen the high-delay server's score gap")
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Grade
	}{
		{0, GradeA},
		{5, GradeA},
		{5.01, GradeB},
		{10, GradeB},
		{20, GradeC},
		{20.1, GradeD},
		{1000, GradeD},
	}

	for _, c := range cases {
		if got := GradeFor(c.score); got != c.want {
			t.Errorf("GradeFor(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}
