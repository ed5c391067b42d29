package pricedata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/eventstudy/internal/contracts"
)

// dateLayouts are tried in order when parsing the Date column
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// CSVSource reads a delimited file with at least Date and Close columns.
// From/To, when non-zero, drop rows outside the inclusive range.
type CSVSource struct {
	Path string
	From time.Time
	To   time.Time
}

// NewCSVSource creates a CSV price source for one file
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// WithRange restricts loaded rows to [from, to]; zero bounds are open
func (s *CSVSource) WithRange(from, to time.Time) *CSVSource {
	s.From = from
	s.To = to
	return s
}

// Load opens Path and parses it
func (s *CSVSource) Load(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return contracts.PriceSeries{}, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	series, err := ParseCSV(f, symbol)
	if err != nil {
		return contracts.PriceSeries{}, err
	}
	series.Bars = filterRange(series.Bars, s.From, s.To)
	return series, nil
}

// filterRange keeps bars with from <= date <= to; zero bounds are open
func filterRange(bars []contracts.PriceBar, from, to time.Time) []contracts.PriceBar {
	if from.IsZero() && to.IsZero() {
		return bars
	}
	out := bars[:0:0]
	for _, b := range bars {
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ParseCSV parses Date/Close columns (header names are case-insensitive).
// Other columns are ignored. Rows are returned in file order.
func ParseCSV(r io.Reader, symbol string) (contracts.PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return contracts.PriceSeries{}, contracts.NewDataFormatError(symbol, "header", "empty file")
	}
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("read header: %w", err)
	}

	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 {
		return contracts.PriceSeries{}, contracts.NewDataFormatError(symbol, "Date", "missing column")
	}
	if closeCol < 0 {
		return contracts.PriceSeries{}, contracts.NewDataFormatError(symbol, "Close", "missing column")
	}

	series := contracts.PriceSeries{Symbol: symbol}
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return contracts.PriceSeries{}, fmt.Errorf("read row %d: %w", row, err)
		}
		if len(record) <= dateCol || len(record) <= closeCol {
			return contracts.PriceSeries{}, &contracts.DataFormatError{Symbol: symbol, Field: "row", Row: row, Reason: "too few fields"}
		}

		date, err := parseDate(record[dateCol])
		if err != nil {
			return contracts.PriceSeries{}, &contracts.DataFormatError{Symbol: symbol, Field: "Date", Row: row, Reason: err.Error()}
		}

		closePx, err := strconv.ParseFloat(strings.TrimSpace(record[closeCol]), 64)
		if err != nil {
			return contracts.PriceSeries{}, &contracts.DataFormatError{
				Symbol: symbol,
				Field:  "Close",
				Row:    row,
				Reason: fmt.Sprintf("unparsable close %q", record[closeCol]),
			}
		}

		series.Bars = append(series.Bars, contracts.PriceBar{Date: date, Close: closePx})
	}

	return series, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return contracts.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}
