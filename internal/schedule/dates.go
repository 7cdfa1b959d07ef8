package schedule

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when normalizing a date string that already
// carries a year.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// yearlessLayouts cover dates where the source text omitted the year.
var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"01/02",
	"1/2",
}

// NormalizeDate resolves a date string to YYYY-MM-DD. When the year is
// missing it applies the schedule rule: a month earlier than the current
// month belongs to next year, otherwise the current year. Schedules are
// published mid-season, so "January 10" read in March means next January.
func NormalizeDate(raw string, now time.Time) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := now.Year()
		if t.Month() < now.Month() {
			year++
		}
		resolved := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return resolved.Format("2006-01-02"), nil
	}

	return "", fmt.Errorf("unrecognized date %q", raw)
}

// CombineLocal assembles a date and an HH:MM time into an absolute instant in
// the given location. An empty time falls back to DefaultGameTime; the
// enricher should already have filled it, this is the second line of defense.
func CombineLocal(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if strings.TrimSpace(clock) == "" {
		clock = DefaultGameTime
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q %q: %w", date, clock, err)
	}

	return t, nil
}
