package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "already midnight UTC",
			in:   time.Date(2018, 8, 7, 0, 0, 0, 0, time.UTC),
			want: time.Date(2018, 8, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "time of day dropped",
			in:   time.Date(2018, 8, 7, 16, 30, 5, 99, time.UTC),
			want: time.Date(2018, 8, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "calendar day kept in original zone",
			in:   time.Date(2018, 8, 7, 1, 0, 0, 0, kst),
			want: time.Date(2018, 8, 7, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NormalizeDate(tt.in)))
		})
	}
}

func TestReturnSeries_IndexOf(t *testing.T) {
	rows := []ReturnRow{
		{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Close: 100},
		{Date: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), Close: 101, Return: Some(0.01)},
		{Date: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), Close: 99, Return: Some(-0.0198)},
	}
	s := NewReturnSeries("TEST", rows)

	idx, ok := s.IndexOf(time.Date(2024, 1, 16, 15, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = s.IndexOf(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	// hand built series without index
	manual := &ReturnSeries{Symbol: "TEST", Rows: rows}
	idx, ok = manual.IndexOf(time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	assert.Equal(t, rows[0].Date, s.FirstDate())
	assert.Equal(t, rows[2].Date, s.LastDate())
}

func TestNullFloat_JSON(t *testing.T) {
	data, err := json.Marshal([]NullFloat{Some(0.5), Missing})
	require.NoError(t, err)
	assert.JSONEq(t, `[0.5, null]`, string(data))

	var decoded []NullFloat
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []NullFloat{Some(0.5), Missing}, decoded)
}

func TestCARWindow_Helpers(t *testing.T) {
	w := &CARWindow{
		Rows: []CARRow{
			{Return: Missing, CAR: Missing},
			{Return: Some(0.1), CAR: Some(0.1)},
			{Return: Some(-0.05), CAR: Some(0.05)},
		},
	}

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []float64{0.1, -0.05}, w.Returns())
	assert.Equal(t, Some(0.05), w.FinalCAR())

	empty := &CARWindow{}
	assert.False(t, empty.FinalCAR().Valid)
	assert.True(t, empty.Start().IsZero())
}

func TestOutcomeReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("TSLA_sec: %w", ErrEventNotFound), "event_not_found"},
		{fmt.Errorf("x: %w", ErrWindowOutOfBounds), "window_out_of_bounds"},
		{fmt.Errorf("x: %w", ErrTestNotComputable), "test_not_computable"},
		{ErrInvalidHalfWidth, "invalid_half_width"},
		{fmt.Errorf("load: %w", NewDataFormatError("TSLA", "Close", "missing column")), "data_format_error"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeReason(tt.err))
		})
	}
}

func TestDataFormatError_Error(t *testing.T) {
	err := &DataFormatError{Symbol: "CYDY", Field: "Date", Row: 3, Reason: "unparsable"}
	assert.Equal(t, "data format error [CYDY] Date (row 3): unparsable", err.Error())

	err = NewDataFormatError("CYDY", "Close", "missing column")
	assert.Equal(t, "data format error [CYDY] Close: missing column", err.Error())
	assert.True(t, IsDataFormatError(fmt.Errorf("wrapped: %w", err)))
}

func TestTestResult_Undefined(t *testing.T) {
	r := Undefined()
	assert.Equal(t, TestUndefined, r.Status)
	assert.False(t, r.IsDefined())
}
