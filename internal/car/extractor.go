package car

import (
	"fmt"
	"time"

	"github.com/wonny/eventstudy/internal/contracts"
)

// DefaultHalfWidth is the number of trading days on each side of the event
const DefaultHalfWidth = 30

// Extract carves the [idx-w, idx+w] window around the event date and attaches
// the running CAR. The event date must exist in the series; there is no
// snapping to a neighbouring trading day.
//
// Missing returns add nothing to the running sum and leave CAR missing on
// their own row.
// ⭐ SSOT: 이벤트 윈도우 / CAR 계산은 여기서만
func Extract(series *contracts.ReturnSeries, event contracts.EventSpec, halfWidth int) (*contracts.CARWindow, error) {
	if halfWidth < 1 {
		return nil, fmt.Errorf("%s: %w (got %d)", event.Name, contracts.ErrInvalidHalfWidth, halfWidth)
	}

	idx, ok := series.IndexOf(event.Date)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", event.Name, contracts.ErrEventNotFound, event.Date.Format("2006-01-02"))
	}

	start, end := idx-halfWidth, idx+halfWidth
	if start < 0 || end > series.Len()-1 {
		return nil, fmt.Errorf("%s: %w: %s needs rows [%d, %d], series has [0, %d]",
			event.Name, contracts.ErrWindowOutOfBounds, event.Date.Format("2006-01-02"), start, end, series.Len()-1)
	}

	rows := make([]contracts.CARRow, 0, end-start+1)
	var sum float64
	for _, r := range series.Rows[start : end+1] {
		row := contracts.CARRow{Date: r.Date, Return: r.Return, CAR: contracts.Missing}
		if r.Return.Valid {
			sum += r.Return.Value
			row.CAR = contracts.Some(sum)
		}
		rows = append(rows, row)
	}

	return &contracts.CARWindow{
		Event: contracts.EventSpec{
			Name:  event.Name,
			Asset: event.Asset,
			Date:  contracts.NormalizeDate(event.Date),
		},
		HalfWidth:  halfWidth,
		EventIndex: idx,
		Rows:       rows,
	}, nil
}

// ExtractAt is Extract for callers that only have a date
func ExtractAt(series *contracts.ReturnSeries, date time.Time, halfWidth int) (*contracts.CARWindow, error) {
	return Extract(series, contracts.EventSpec{
		Name:  date.Format("2006-01-02"),
		Asset: series.Symbol,
		Date:  date,
	}, halfWidth)
}
