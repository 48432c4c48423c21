// Package period defines the time bucket that scopes teams, questions and
// rankings. A period is either hourly (hour/day/month/year) or monthly
// (month/year); which one is in play is a deployment-wide setting.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Resolution string

const (
	ResolutionHourly  Resolution = "hourly"
	ResolutionMonthly Resolution = "monthly"
)

var ErrInvalidPeriod = errors.New("invalid_period")

// Period identifies one evaluation round. Hour and Day are zero for
// monthly-resolution periods.
type Period struct {
	Hour  int `json:"hour,omitempty"`
	Day   int `json:"day,omitempty"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// FromTime buckets t (normalized to UTC) at the given resolution.
func FromTime(t time.Time, res Resolution) Period {
	t = t.UTC()
	p := Period{
		Month: int(t.Month()),
		Year:  t.Year(),
	}
	if res == ResolutionHourly {
		p.Hour = t.Hour()
		p.Day = t.Day()
	}
	return p
}

// ParseResolution normalizes a configured resolution value.
func ParseResolution(raw string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ResolutionMonthly):
		return ResolutionMonthly, nil
	case string(ResolutionHourly):
		return ResolutionHourly, nil
	default:
		return "", fmt.Errorf("unsupported period resolution %q", raw)
	}
}

func (p Period) Resolution() Resolution {
	if p.Day != 0 {
		return ResolutionHourly
	}
	return ResolutionMonthly
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0 && p.Day == 0 && p.Hour == 0
}

func (p Period) Validate() error {
	if p.Year < 1 || p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	switch p.Resolution() {
	case ResolutionHourly:
		if p.Day < 1 || p.Day > 31 || p.Hour < 0 || p.Hour > 23 {
			return ErrInvalidPeriod
		}
	default:
		if p.Hour != 0 {
			return ErrInvalidPeriod
		}
	}
	return nil
}

// Key renders the canonical storage key: "2026-08" for monthly periods,
// "2026-08-29T15" for hourly ones. Keys order lexicographically in time.
func (p Period) Key() string {
	if p.Resolution() == ResolutionHourly {
		return fmt.Sprintf("%04d-%02d-%02dT%02d", p.Year, p.Month, p.Day, p.Hour)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Previous returns the immediately preceding period at the same resolution.
func (p Period) Previous() Period {
	if p.Resolution() == ResolutionHourly {
		t := time.Date(p.Year, time.Month(p.Month), p.Day, p.Hour, 0, 0, 0, time.UTC)
		return FromTime(t.Add(-time.Hour), ResolutionHourly)
	}
	t := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return FromTime(t.AddDate(0, -1, 0), ResolutionMonthly)
}

// ParseKey parses a canonical period key produced by Key.
func ParseKey(key string) (Period, error) {
	key = strings.TrimSpace(key)
	var p Period
	switch len(key) {
	case len("2006-01"):
		if _, err := fmt.Sscanf(key, "%04d-%02d", &p.Year, &p.Month); err != nil {
			return Period{}, ErrInvalidPeriod
		}
	case len("2006-01-02T15"):
		if _, err := fmt.Sscanf(key, "%04d-%02d-%02dT%02d", &p.Year, &p.Month, &p.Day, &p.Hour); err != nil {
			return Period{}, ErrInvalidPeriod
		}
	default:
		return Period{}, ErrInvalidPeriod
	}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}
