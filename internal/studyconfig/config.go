package studyconfig

import (
	"fmt"
	"sort"
	"time"

	"github.com/wonny/eventstudy/internal/contracts"
)

// SourceKind selects where an asset's prices come from
type SourceKind string

const (
	SourceCSV      SourceKind = "csv"
	SourcePostgres SourceKind = "postgres"
	SourceNaver    SourceKind = "naver"
)

// Config is the event study definition
type Config struct {
	Study  Study            `yaml:"study" json:"study"`
	Assets map[string]Asset `yaml:"assets" json:"assets"`
	Events []Event          `yaml:"events" json:"events"`
}

// Study holds run-wide parameters
type Study struct {
	Name            string `yaml:"name" json:"name"`
	WindowHalfWidth int    `yaml:"window_half_width" json:"window_half_width"` // 0 → 30
}

// Asset tells the runner how to load one price series
type Asset struct {
	Source SourceKind `yaml:"source" json:"source"`
	Path   string     `yaml:"path,omitempty" json:"path,omitempty"` // csv
	Code   string     `yaml:"code,omitempty" json:"code,omitempty"` // postgres / naver, defaults to the asset key
	From   string     `yaml:"from,omitempty" json:"from,omitempty"` // YYYY-MM-DD, optional lower bound
	To     string     `yaml:"to,omitempty" json:"to,omitempty"`     // YYYY-MM-DD, optional upper bound
}

// Event is one named event on a configured asset
type Event struct {
	Name  string `yaml:"name" json:"name"`
	Asset string `yaml:"asset" json:"asset"`
	Date  string `yaml:"date" json:"date"` // YYYY-MM-DD
}

// DefaultWindowHalfWidth is used when window_half_width is omitted
const DefaultWindowHalfWidth = 30

// HalfWidth returns the configured window half width
func (c *Config) HalfWidth() int {
	if c.Study.WindowHalfWidth == 0 {
		return DefaultWindowHalfWidth
	}
	return c.Study.WindowHalfWidth
}

// AssetNames returns configured asset keys in sorted order
func (c *Config) AssetNames() []string {
	names := make([]string, 0, len(c.Assets))
	for name := range c.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EventSpecs converts events to contracts.EventSpec, preserving file order
func (c *Config) EventSpecs() ([]contracts.EventSpec, error) {
	specs := make([]contracts.EventSpec, 0, len(c.Events))
	for i, ev := range c.Events {
		date, err := time.Parse("2006-01-02", ev.Date)
		if err != nil {
			return nil, ValidationError{fmt.Sprintf("events[%d].date", i), fmt.Sprintf("invalid date %q", ev.Date)}
		}
		specs = append(specs, contracts.EventSpec{Name: ev.Name, Asset: ev.Asset, Date: date})
	}
	return specs, nil
}

// SourceCode returns the symbol used to query postgres/naver
func (a Asset) SourceCode(key string) string {
	if a.Code != "" {
		return a.Code
	}
	return key
}

// Select returns a copy restricted to the named events and the assets they use.
// An empty names list returns c unchanged.
func (c *Config) Select(names []string) (*Config, error) {
	if len(names) == 0 {
		return c, nil
	}

	byName := make(map[string]Event, len(c.Events))
	for _, ev := range c.Events {
		byName[ev.Name] = ev
	}

	out := &Config{Study: c.Study, Assets: make(map[string]Asset)}
	for _, name := range names {
		ev, ok := byName[name]
		if !ok {
			return nil, ValidationError{"events", fmt.Sprintf("unknown event %q", name)}
		}
		out.Events = append(out.Events, ev)
		out.Assets[ev.Asset] = c.Assets[ev.Asset]
	}
	return out, nil
}

// Range returns the optional price range; zero times mean unbounded
func (a Asset) Range() (from, to time.Time, err error) {
	if a.From != "" {
		if from, err = time.Parse("2006-01-02", a.From); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from %q", a.From)
		}
	}
	if a.To != "" {
		if to, err = time.Parse("2006-01-02", a.To); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to %q", a.To)
		}
	}
	return from, to, nil
}
