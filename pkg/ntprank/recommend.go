package ntprank

import "fmt"

// Recommend walks the ranked sequence in order and returns the first server
// whose success rate meets requireOKRate. A nil result with a nil error
// means nothing qualified, which callers branch on.
func Recommend(ranked []Ranked, requireOKRate float64) (*Ranked, error) {
	if requireOKRate < 0 || requireOKRate > 1 {
		return nil, fmt.Errorf("required ok rate must be in [0, 1], got %v", requireOKRate)
	}

	for i := range ranked {
		total := ranked[i].OK + ranked[i].Fail
		if total == 0 {
			continue
		}
		if float64(ranked[i].OK)/float64(total) >= requireOKRate {
			best := ranked[i]
			return &best, nil
		}
	}
	return nil, nil
}
