// Package weeks buckets calendar weeks into quarters.
//
// A quarter is always 13 Monday-to-Sunday weeks. The first week of a
// quarter is the one owned by the quarter's first calendar day: a Monday
// keeps its own week, a Sunday belongs to the following week, and any
// other day belongs to the week that started on the preceding Monday.
// Week numbers count from the owning Monday of January 1st.
//
// Everything here is a pure function of its inputs.
package weeks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// WeeksPerQuarter is the fixed number of buckets emitted for a quarter.
const WeeksPerQuarter = 13

// DateLayout is the civil date format used for week boundaries.
const DateLayout = "2006-01-02"

var (
	ErrInvalidQuarter = errors.New("quarter must be between 1 and 4")
	ErrInvalidYear    = errors.New("year must be between 1 and 9999")
	// ErrUnbucketed is returned by Locate for a week that no quarter emits.
	ErrUnbucketed = errors.New("date falls in a week outside every quarter")
)

const day = 24 * time.Hour

// Week is a single Monday-to-Sunday bucket.
type Week struct {
	Number int
	Start  time.Time
	End    time.Time
}

// Contains reports whether d falls on or between Start and End.
func (w Week) Contains(d time.Time) bool {
	d = Date(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// StartString returns Start formatted as YYYY-MM-DD.
func (w Week) StartString() string { return w.Start.Format(DateLayout) }

// EndString returns End formatted as YYYY-MM-DD.
func (w Week) EndString() string { return w.End.Format(DateLayout) }

func (w Week) String() string {
	return fmt.Sprintf("W%d %s..%s", w.Number, w.StartString(), w.EndString())
}

type weekJSON struct {
	WeekNumber int    `json:"weekNumber"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

func (w Week) MarshalJSON() ([]byte, error) {
	return json.Marshal(weekJSON{WeekNumber: w.Number, StartDate: w.StartString(), EndDate: w.EndString()})
}

func (w *Week) UnmarshalJSON(data []byte) error {
	var raw weekJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := time.Parse(DateLayout, raw.StartDate)
	if err != nil {
		return fmt.Errorf("parsing startDate: %w", err)
	}
	end, err := time.Parse(DateLayout, raw.EndDate)
	if err != nil {
		return fmt.Errorf("parsing endDate: %w", err)
	}
	*w = Week{Number: raw.WeekNumber, Start: start, End: end}
	return nil
}

// Date truncates t to its civil date at UTC midnight. The calendar day of t
// in its own location is kept.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SnapToMonday returns the Monday that owns the week containing d.
// Sunday moves forward one day; Tuesday through Saturday move back.
func SnapToMonday(d time.Time) time.Time {
	d = Date(d)
	switch wd := d.Weekday(); wd {
	case time.Monday:
		return d
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d.AddDate(0, 0, -int(wd-time.Monday))
	}
}

// WeekStart returns the Monday on or before d. Unlike SnapToMonday, a
// Sunday stays in the week that started six days earlier.
func WeekStart(d time.Time) time.Time {
	d = Date(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// IsMonday reports whether d is a Monday.
func IsMonday(d time.Time) bool {
	return d.Weekday() == time.Monday
}

// WeekNumber returns the week number of d counted within year. Week 1 is
// the week owned by January 1st of year, so a date late in December of the
// previous year can be week 1.
func WeekNumber(d time.Time, year int) int {
	anchor := SnapToMonday(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	days := daysBetween(anchor, Date(d))
	return 1 + floorDiv(days, 7)
}

// GenerateWeeks returns the 13 week buckets of the given quarter.
func GenerateWeeks(year, quarter int) ([]Week, error) {
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuarter, quarter)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}

	first := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	start := SnapToMonday(first)

	out := make([]Week, 0, WeeksPerQuarter)
	for i := 0; i < WeeksPerQuarter; i++ {
		s := start.AddDate(0, 0, 7*i)
		out = append(out, Week{
			Number: WeekNumber(s, year),
			Start:  s,
			End:    s.AddDate(0, 0, 6),
		})
	}
	return out, nil
}

// YearWeeks concatenates the buckets of all four quarters of year.
func YearWeeks(year int) ([]Week, error) {
	out := make([]Week, 0, 4*WeeksPerQuarter)
	for q := 1; q <= 4; q++ {
		ws, err := GenerateWeeks(year, q)
		if err != nil {
			return nil, err
		}
		out = append(out, ws...)
	}
	return out, nil
}

// Locate finds the quarter and bucket containing d. Where two quarters emit
// the same week the later quarter wins.
func Locate(d time.Time) (Quarter, Week, error) {
	d = Date(d)
	q := CurrentQuarter(d).Next().Next()
	for i := 0; i < 5; i, q = i+1, q.Prev() {
		ws, err := q.Weeks()
		if err != nil {
			// Neighbours outside years 1..9999 cannot hold d.
			continue
		}
		for _, w := range ws {
			if w.Contains(d) {
				return q, w, nil
			}
		}
	}
	return Quarter{}, Week{}, fmt.Errorf("%s: %w", d.Format(DateLayout), ErrUnbucketed)
}

// IndexOf returns the position of the bucket starting on monday, or -1.
func IndexOf(ws []Week, monday time.Time) int {
	monday = Date(monday)
	for i, w := range ws {
		if w.Start.Equal(monday) {
			return i
		}
	}
	return -1
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
