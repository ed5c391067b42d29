package studyconfig

import (
	"fmt"
	"time"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Study ===
	if cfg.Study.WindowHalfWidth < 0 {
		return ValidationError{"study.window_half_width", "must be >= 1"}
	}

	// === Assets ===
	if len(cfg.Assets) == 0 {
		return ValidationError{"assets", "at least one asset is required"}
	}
	for _, name := range cfg.AssetNames() {
		a := cfg.Assets[name]
		field := "assets." + name
		switch a.Source {
		case SourceCSV:
			if a.Path == "" {
				return ValidationError{field + ".path", "required for csv source"}
			}
		case SourcePostgres, SourceNaver:
		case "":
			return ValidationError{field + ".source", "required"}
		default:
			return ValidationError{field + ".source", fmt.Sprintf("unknown source %q (csv|postgres|naver)", a.Source)}
		}

		if a.From != "" {
			if _, err := time.Parse("2006-01-02", a.From); err != nil {
				return ValidationError{field + ".from", fmt.Sprintf("must be YYYY-MM-DD, got %q", a.From)}
			}
		}
		if a.To != "" {
			if _, err := time.Parse("2006-01-02", a.To); err != nil {
				return ValidationError{field + ".to", fmt.Sprintf("must be YYYY-MM-DD, got %q", a.To)}
			}
		}
		from, to, _ := a.Range()
		if !from.IsZero() && !to.IsZero() && to.Before(from) {
			return ValidationError{field + ".to", "must not be before from"}
		}
	}

	// === Events ===
	if len(cfg.Events) == 0 {
		return ValidationError{"events", "at least one event is required"}
	}
	seen := make(map[string]bool, len(cfg.Events))
	for i, ev := range cfg.Events {
		field := fmt.Sprintf("events[%d]", i)
		if ev.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[ev.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate event %q", ev.Name)}
		}
		seen[ev.Name] = true

		if _, ok := cfg.Assets[ev.Asset]; !ok {
			return ValidationError{field + ".asset", fmt.Sprintf("unknown asset %q", ev.Asset)}
		}
		if _, err := time.Parse("2006-01-02", ev.Date); err != nil {
			return ValidationError{field + ".date", fmt.Sprintf("must be YYYY-MM-DD, got %q", ev.Date)}
		}
	}

	return nil
}

// UsesSource reports whether any asset is loaded from kind
func (c *Config) UsesSource(kind SourceKind) bool {
	for _, a := range c.Assets {
		if a.Source == kind {
			return true
		}
	}
	return false
}
