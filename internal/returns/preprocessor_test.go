package returns

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/eventstudy/internal/contracts"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func seriesOf(closes ...float64) contracts.PriceSeries {
	bars := make([]contracts.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.PriceBar{Date: day(i), Close: c}
	}
	return contracts.PriceSeries{Symbol: "TEST", Bars: bars}
}

func TestCompute(t *testing.T) {
	closes := []float64{100, 101, 99, 102.5, 102.5, 80}
	rs, err := Compute(seriesOf(closes...))
	require.NoError(t, err)
	require.Equal(t, len(closes), rs.Len())

	assert.False(t, rs.Rows[0].Return.Valid, "first return must be missing")
	for i := 1; i < len(closes); i++ {
		require.True(t, rs.Rows[i].Return.Valid)
		want := closes[i]/closes[i-1] - 1
		assert.InDelta(t, want, rs.Rows[i].Return.Value, 1e-12, "row %d", i)
	}
	assert.Equal(t, 0.0, rs.Rows[4].Return.Value)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	in := contracts.PriceSeries{
		Symbol: "TEST",
		Bars: []contracts.PriceBar{
			{Date: time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC), Close: 10},
			{Date: time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC), Close: 11},
		},
	}
	rs, err := Compute(in)
	require.NoError(t, err)

	assert.Equal(t, 15, in.Bars[0].Date.Hour(), "input date untouched")
	assert.Equal(t, 0, rs.Rows[0].Date.Hour(), "output date normalized")

	idx, ok := rs.IndexOf(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestCompute_SingleRow(t *testing.T) {
	rs, err := Compute(seriesOf(42))
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.False(t, rs.Rows[0].Return.Valid)
}

func TestCompute_ZeroPriorClose(t *testing.T) {
	rs, err := Compute(seriesOf(0, 5, 10))
	require.NoError(t, err)

	assert.False(t, rs.Rows[1].Return.Valid, "no return from a zero price")
	assert.InDelta(t, 1.0, rs.Rows[2].Return.Value, 1e-12)
}

func TestCompute_DataFormatErrors(t *testing.T) {
	tests := []struct {
		name      string
		series    contracts.PriceSeries
		wantField string
	}{
		{
			name:      "empty series",
			series:    contracts.PriceSeries{Symbol: "X"},
			wantField: "Close",
		},
		{
			name: "missing date",
			series: contracts.PriceSeries{Symbol: "X", Bars: []contracts.PriceBar{
				{Date: day(0), Close: 1},
				{Close: 2},
			}},
			wantField: "Date",
		},
		{
			name:      "negative close",
			series:    seriesOf(10, -1),
			wantField: "Close",
		},
		{
			name:      "NaN close",
			series:    seriesOf(10, math.NaN()),
			wantField: "Close",
		},
		{
			name: "duplicate date",
			series: contracts.PriceSeries{Symbol: "X", Bars: []contracts.PriceBar{
				{Date: day(0), Close: 1},
				{Date: day(0).Add(3 * time.Hour), Close: 2},
			}},
			wantField: "Date",
		},
		{
			name: "out of order",
			series: contracts.PriceSeries{Symbol: "X", Bars: []contracts.PriceBar{
				{Date: day(2), Close: 1},
				{Date: day(1), Close: 2},
			}},
			wantField: "Date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.series)
			require.Error(t, err)

			var dfe *contracts.DataFormatError
			require.ErrorAs(t, err, &dfe)
			assert.Equal(t, tt.wantField, dfe.Field)
		})
	}
}
