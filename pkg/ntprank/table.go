package ntprank

import (
	"fmt"
	"strings"
)

// FormatRankedTable renders ranked results as a plain text table limited to
// the first topN rows; topN <= 0 renders every row. Presentation only, no
// side effects.
func FormatRankedTable(ranked []Ranked, topN int) string {
	rows := ranked
	if topN > 0 && topN < len(rows) {
		rows = rows[:topN]
	}
	if len(rows) == 0 {
		return "(no ranked results)"
	}

	header := fmt.Sprintf("%-4s %-22s %8s %5s %12s %10s %8s",
		"rank", "server", "score", "grade", "vs_base(ms)", "delay(ms)", "ok/fail")
	lines := []string{header, strings.Repeat("-", len(header))}
	for i, row := range rows {
		lines = append(lines, fmt.Sprintf("%-4d %-22s %8.2f %5s %12.2f %10.2f %5d/%d",
			i+1, row.Server, row.Score, row.Grade, row.VsBaseMS, row.AvgDelayMS, row.OK, row.Fail))
	}
	return strings.Join(lines, "\n")
}
