package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wonny/eventstudy/internal/contracts"
	"github.com/wonny/eventstudy/internal/study"
)

const (
	doubleSeparator = "═══════════════════════════════════════════════════════════"
	separator       = "───────────────────────────────────────────────────────────"
)

// Options controls the text report
type Options struct {
	Chart       bool // draw the CAR chart under each event
	ChartHeight int  // rows in the chart, <3 means DefaultChartHeight
}

// DefaultChartHeight is the number of rows in a CAR chart
const DefaultChartHeight = 12

// Write prints the study header, one block per event and a summary
// ⭐ SSOT: 결과 출력 포맷은 여기서만
func Write(w io.Writer, rep *study.Report, opts Options) error {
	p := &printer{w: w}

	p.line(doubleSeparator)
	p.printf("  Event Study: %s\n", rep.StudyName)
	p.line(separator)
	p.printf("  Window    : ±%d trading days (%d rows)\n", rep.HalfWidth, 2*rep.HalfWidth+1)
	p.printf("  Events    : %d\n", len(rep.Results))
	p.printf("  Config    : %s\n", shortHash(rep.ConfigHash))
	p.line(doubleSeparator)

	for _, res := range rep.Results {
		p.line("")
		writeEvent(p, res)
		if opts.Chart && res.Window != nil {
			p.line("")
			writeChart(p, res.Window, opts.ChartHeight)
		}
	}

	p.line("")
	p.line(separator)
	failed := rep.Failed()
	p.printf("  Evaluated : %d / %d\n", len(rep.Results)-failed, len(rep.Results))
	for _, res := range rep.Results {
		if err := res.Err(); err != nil {
			p.printf("  ⚠️  %s: %s\n", res.Event.Name, res.Outcome())
		}
	}
	p.line(separator)

	return p.err
}

// writeEvent prints the statistics lines for one event
func writeEvent(p *printer, res study.EventResult) {
	p.printf("%s:\n", res.Event.Name)
	p.printf("  t-test: t-statistic = %s, p-value = %s\n",
		formatStat(res.Test.TStat), formatStat(res.Test.TPValue))
	p.printf("  Wilcoxon signed-rank test: statistic = %s, p-value = %s\n",
		formatStat(res.Test.SignedRankStat), formatStat(res.Test.SignedRankPValue))

	if res.Window != nil {
		p.printf("  window: %s ~ %s, final CAR = %s\n",
			res.Window.Start().Format("2006-01-02"),
			res.Window.End().Format("2006-01-02"),
			formatStat(res.Window.FinalCAR()))
	}
	if err := res.Err(); err != nil {
		p.printf("  outcome: %s (%v)\n", res.Outcome(), err)
	}
}

// formatStat prints the shortest exact representation, nan when missing
func formatStat(v contracts.NullFloat) string {
	if !v.Valid {
		return "nan"
	}
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, rep *study.Report) error {
	type eventJSON struct {
		Event   contracts.EventSpec  `json:"event"`
		Outcome string               `json:"outcome"`
		Error   string               `json:"error,omitempty"`
		Window  *contracts.CARWindow `json:"window,omitempty"`
		Test    contracts.TestResult `json:"test"`
	}
	out := struct {
		Study      string      `json:"study"`
		ConfigHash string      `json:"config_hash"`
		HalfWidth  int         `json:"half_width"`
		Events     []eventJSON `json:"events"`
	}{
		Study:      rep.StudyName,
		ConfigHash: rep.ConfigHash,
		HalfWidth:  rep.HalfWidth,
		Events:     make([]eventJSON, 0, len(rep.Results)),
	}

	for _, res := range rep.Results {
		ev := eventJSON{Event: res.Event, Outcome: res.Outcome(), Window: res.Window, Test: res.Test}
		if err := res.Err(); err != nil {
			ev.Error = err.Error()
		}
		out.Events = append(out.Events, ev)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// printer remembers the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

func (p *printer) raw(lines []string) {
	p.line(strings.Join(lines, "\n"))
}
