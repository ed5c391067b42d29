package returns

import (
	"fmt"
	"math"

	"github.com/wonny/eventstudy/internal/contracts"
)

// Compute converts a price series into a return series.
// return[i] = Close[i]/Close[i-1] - 1; the first row has no return.
// ⭐ SSOT: 일별 수익률 계산은 여기서만
func Compute(series contracts.PriceSeries) (*contracts.ReturnSeries, error) {
	if len(series.Bars) == 0 {
		return nil, contracts.NewDataFormatError(series.Symbol, "Close", "series has no rows")
	}

	rows := make([]contracts.ReturnRow, len(series.Bars))
	for i, bar := range series.Bars {
		if bar.Date.IsZero() {
			return nil, &contracts.DataFormatError{Symbol: series.Symbol, Field: "Date", Row: i, Reason: "missing date"}
		}
		if math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) || bar.Close < 0 {
			return nil, &contracts.DataFormatError{
				Symbol: series.Symbol,
				Field:  "Close",
				Row:    i,
				Reason: fmt.Sprintf("invalid close %v", bar.Close),
			}
		}

		date := contracts.NormalizeDate(bar.Date)
		if i > 0 && !date.After(rows[i-1].Date) {
			return nil, &contracts.DataFormatError{
				Symbol: series.Symbol,
				Field:  "Date",
				Row:    i,
				Reason: fmt.Sprintf("dates not strictly increasing (%s after %s)",
					date.Format("2006-01-02"), rows[i-1].Date.Format("2006-01-02")),
			}
		}

		rows[i] = contracts.ReturnRow{Date: date, Close: bar.Close, Return: contracts.Missing}
		if i > 0 {
			rows[i].Return = simpleReturn(rows[i-1].Close, bar.Close)
		}
	}

	return contracts.NewReturnSeries(series.Symbol, rows), nil
}

// simpleReturn is missing when there is no usable prior price
func simpleReturn(prev, cur float64) contracts.NullFloat {
	if prev == 0 {
		return contracts.Missing
	}
	return contracts.Some(cur/prev - 1)
}
