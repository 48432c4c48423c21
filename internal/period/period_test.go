package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromTime_Monthly(t *testing.T) {
	at := time.Date(2026, time.August, 29, 15, 42, 0, 0, time.UTC)
	p := FromTime(at, ResolutionMonthly)

	assert.Equal(t, Period{Month: 8, Year: 2026}, p)
	assert.Equal(t, "2026-08", p.Key())
	assert.Equal(t, ResolutionMonthly, p.Resolution())
}

func TestFromTime_Hourly(t *testing.T) {
	at := time.Date(2026, time.August, 29, 15, 42, 0, 0, time.UTC)
	p := FromTime(at, ResolutionHourly)

	assert.Equal(t, Period{Hour: 15, Day: 29, Month: 8, Year: 2026}, p)
	assert.Equal(t, "2026-08-29T15", p.Key())
}

func TestParseKey_RoundTrip(t *testing.T) {
	for _, p := range []Period{
		{Month: 1, Year: 2025},
		{Month: 12, Year: 2026},
		{Hour: 0, Day: 1, Month: 2, Year: 2026},
		{Hour: 23, Day: 31, Month: 12, Year: 2026},
	} {
		parsed, err := ParseKey(p.Key())
		assert.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestParseKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "2026", "2026-13", "2026-08-32T10", "2026-08-29T24", "not-a-key"} {
		_, err := ParseKey(key)
		assert.Error(t, err, key)
	}
}

func TestPrevious(t *testing.T) {
	p := Period{Month: 1, Year: 2026}
	assert.Equal(t, Period{Month: 12, Year: 2025}, p.Previous())

	h := Period{Hour: 0, Day: 1, Month: 3, Year: 2026}
	assert.Equal(t, Period{Hour: 23, Day: 28, Month: 2, Year: 2026}, h.Previous())
}
