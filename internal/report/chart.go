package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/eventstudy/internal/contracts"
)

// writeChart draws Date vs CAR, one column per trading day.
// Missing CAR values leave the column empty; '|' marks the event day.
func writeChart(p *printer, window *contracts.CARWindow, height int) {
	p.printf("  Cumulative Abnormal Returns for %s\n", window.Event.Name)
	p.raw(renderChart(window, height))
}

// renderChart returns the chart lines without the title
func renderChart(window *contracts.CARWindow, height int) []string {
	if height < 3 {
		height = DefaultChartHeight
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range window.Rows {
		if r.CAR.Valid {
			lo = math.Min(lo, r.CAR.Value)
			hi = math.Max(hi, r.CAR.Value)
		}
	}
	if math.IsInf(lo, 1) {
		return []string{"  (no CAR values)"}
	}
	if hi == lo {
		lo, hi = lo-0.01, hi+0.01
	}

	// 행 0 = 최댓값, 행 height-1 = 최솟값
	rowOf := func(v float64) int {
		return int(math.Round((hi - v) / (hi - lo) * float64(height-1)))
	}

	width := len(window.Rows)
	grid := make([][]byte, height)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", width))
	}

	if lo < 0 && hi > 0 {
		zero := rowOf(0)
		for c := range grid[zero] {
			grid[zero][c] = '-'
		}
	}

	center := window.HalfWidth
	if center >= 0 && center < width {
		for r := range grid {
			grid[r][center] = '|'
		}
	}

	for c, row := range window.Rows {
		if row.CAR.Valid {
			grid[rowOf(row.CAR.Value)][c] = '*'
		}
	}

	lines := make([]string, 0, height+2)
	for r := range grid {
		label := ""
		switch r {
		case 0:
			label = fmt.Sprintf("%+.4f", hi)
		case height - 1:
			label = fmt.Sprintf("%+.4f", lo)
		}
		lines = append(lines, fmt.Sprintf("  %9s ┤%s", label, string(grid[r])))
	}

	lines = append(lines, fmt.Sprintf("  %9s └%s", "", strings.Repeat("─", width)))

	first := window.Start().Format("2006-01-02")
	last := window.End().Format("2006-01-02")
	gap := width - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, fmt.Sprintf("  %9s  %s%s%s", "", first, strings.Repeat(" ", gap), last))

	return lines
}
