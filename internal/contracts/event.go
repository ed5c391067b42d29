package contracts

import "time"

// EventSpec names an event on one asset
type EventSpec struct {
	Name  string    `json:"name"`
	Asset string    `json:"asset"`
	Date  time.Time `json:"date"`
}

// CARRow is one trading day inside an event window
type CARRow struct {
	Date   time.Time `json:"date"`
	Return NullFloat `json:"return"`
	CAR    NullFloat `json:"car"`
}

// CARWindow is the 2w+1 day span centred on an event, with the running CAR.
// CAR accumulates from the first row of the window, not from the event day.
type CARWindow struct {
	Event      EventSpec `json:"event"`
	HalfWidth  int       `json:"half_width"`
	EventIndex int       `json:"event_index"` // position of the event row in the source series
	Rows       []CARRow  `json:"rows"`
}

// Len returns the number of rows (2w+1 for a valid window)
func (w *CARWindow) Len() int {
	return len(w.Rows)
}

// Returns returns the non-missing returns in window order
func (w *CARWindow) Returns() []float64 {
	out := make([]float64, 0, len(w.Rows))
	for _, r := range w.Rows {
		if r.Return.Valid {
			out = append(out, r.Return.Value)
		}
	}
	return out
}

// FinalCAR returns the last present CAR value
func (w *CARWindow) FinalCAR() NullFloat {
	for i := len(w.Rows) - 1; i >= 0; i-- {
		if w.Rows[i].CAR.Valid {
			return w.Rows[i].CAR
		}
	}
	return Missing
}

// Start returns the first date of the window
func (w *CARWindow) Start() time.Time {
	if len(w.Rows) == 0 {
		return time.Time{}
	}
	return w.Rows[0].Date
}

// End returns the last date of the window
func (w *CARWindow) End() time.Time {
	if len(w.Rows) == 0 {
		return time.Time{}
	}
	return w.Rows[len(w.Rows)-1].Date
}
