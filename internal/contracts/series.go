package contracts

import (
	"encoding/json"
	"time"
)

// NullFloat is a float64 that may be missing
// ⭐ 결측값은 0이 아니라 Valid=false로 표현
type NullFloat struct {
	Value float64
	Valid bool
}

// Some wraps a present value
func Some(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// Missing is the missing-value marker
var Missing = NullFloat{}

// MarshalJSON encodes a missing value as null
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON decodes null as a missing value
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
// Event lookup compares normalized dates for exact equality.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceBar is one daily close
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is the raw daily close history of one asset, oldest first
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// Len returns the number of bars
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// ReturnRow is a price bar annotated with its simple return
type ReturnRow struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Return NullFloat `json:"return"`
}

// ReturnSeries is a PriceSeries with daily returns attached.
// Built once by the return preprocessor and treated as read-only afterwards.
type ReturnSeries struct {
	Symbol string
	Rows   []ReturnRow

	index map[time.Time]int
}

// NewReturnSeries indexes rows by normalized date.
// Rows must already be ordered with unique dates.
func NewReturnSeries(symbol string, rows []ReturnRow) *ReturnSeries {
	index := make(map[time.Time]int, len(rows))
	for i, r := range rows {
		index[NormalizeDate(r.Date)] = i
	}
	return &ReturnSeries{Symbol: symbol, Rows: rows, index: index}
}

// Len returns the number of rows
func (s *ReturnSeries) Len() int {
	return len(s.Rows)
}

// IndexOf returns the row position whose date equals date exactly
func (s *ReturnSeries) IndexOf(date time.Time) (int, bool) {
	if s.index == nil {
		// Built by hand (tests); fall back to a scan
		want := NormalizeDate(date)
		for i, r := range s.Rows {
			if NormalizeDate(r.Date).Equal(want) {
				return i, true
			}
		}
		return 0, false
	}
	idx, ok := s.index[NormalizeDate(date)]
	return idx, ok
}

// FirstDate returns the first trading date (zero if empty)
func (s *ReturnSeries) FirstDate() time.Time {
	if len(s.Rows) == 0 {
		return time.Time{}
	}
	return s.Rows[0].Date
}

// LastDate returns the last trading date (zero if empty)
func (s *ReturnSeries) LastDate() time.Time {
	if len(s.Rows) == 0 {
		return time.Time{}
	}
	return s.Rows[len(s.Rows)-1].Date
}
