package weeks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Quarter identifies one of the four 13-week periods of a year.
type Quarter struct {
	Year int
	Q    int
}

var (
	quarterYearFirst = regexp.MustCompile(`^(\d{4})-?[Qq]?([1-4])$`)
	quarterQFirst    = regexp.MustCompile(`^[Qq]([1-4])[-/ ]?(\d{4})$`)
)

// CurrentQuarter returns the calendar quarter that contains now.
func CurrentQuarter(now time.Time) Quarter {
	return Quarter{Year: now.Year(), Q: (int(now.Month())-1)/3 + 1}
}

// ParseQuarter accepts 2025-Q1, 2025Q1, 2025-1 and Q1-2025.
func ParseQuarter(s string) (Quarter, error) {
	s = strings.TrimSpace(s)
	if m := quarterYearFirst.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		return Quarter{Year: y, Q: q}, nil
	}
	if m := quarterQFirst.FindStringSubmatch(s); m != nil {
		q, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		return Quarter{Year: y, Q: q}, nil
	}
	return Quarter{}, fmt.Errorf("invalid quarter %q (expected e.g. 2025-Q1)", s)
}

func (q Quarter) String() string {
	return fmt.Sprintf("%04d-Q%d", q.Year, q.Q)
}

// Validate checks the quarter is within 1..4 and the year is representable.
func (q Quarter) Validate() error {
	if q.Q < 1 || q.Q > 4 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuarter, q.Q)
	}
	if q.Year < 1 || q.Year > 9999 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, q.Year)
	}
	return nil
}

// Weeks returns the quarter's 13 buckets.
func (q Quarter) Weeks() ([]Week, error) {
	return GenerateWeeks(q.Year, q.Q)
}

func (q Quarter) Next() Quarter {
	if q.Q >= 4 {
		return Quarter{Year: q.Year + 1, Q: 1}
	}
	return Quarter{Year: q.Year, Q: q.Q + 1}
}

func (q Quarter) Prev() Quarter {
	if q.Q <= 1 {
		return Quarter{Year: q.Year - 1, Q: 4}
	}
	return Quarter{Year: q.Year, Q: q.Q - 1}
}

// Before reports whether q is earlier than other.
func (q Quarter) Before(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Q < other.Q
}

// Span returns the first Monday and last Sunday covered by the quarter.
func (q Quarter) Span() (time.Time, time.Time, error) {
	ws, err := q.Weeks()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return ws[0].Start, ws[len(ws)-1].End, nil
}

// WeekRef addresses a bucket as "2025-Q1/W3", where W is the 1-based
// position inside the quarter rather than the week number.
type WeekRef struct {
	Quarter Quarter
	Index   int
}

var weekRefPattern = regexp.MustCompile(`^(.+)/[Ww](\d{1,2})$`)

// ParseWeekRef parses a quarter-relative week reference.
func ParseWeekRef(s string) (WeekRef, error) {
	m := weekRefPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return WeekRef{}, fmt.Errorf("invalid week ref %q (expected e.g. 2025-Q1/W3)", s)
	}
	q, err := ParseQuarter(m[1])
	if err != nil {
		return WeekRef{}, err
	}
	idx, _ := strconv.Atoi(m[2])
	if idx < 1 || idx > WeeksPerQuarter {
		return WeekRef{}, fmt.Errorf("week ref %q: position must be 1..%d", s, WeeksPerQuarter)
	}
	return WeekRef{Quarter: q, Index: idx}, nil
}

// Resolve returns the bucket the ref points at.
func (r WeekRef) Resolve() (Week, error) {
	ws, err := r.Quarter.Weeks()
	if err != nil {
		return Week{}, err
	}
	return ws[r.Index-1], nil
}

func (r WeekRef) String() string {
	return fmt.Sprintf("%s/W%d", r.Quarter, r.Index)
}

// ParseMonday resolves either a YYYY-MM-DD date or a week ref to the Monday
// that starts its week.
func ParseMonday(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		ref, err := ParseWeekRef(s)
		if err != nil {
			return time.Time{}, err
		}
		w, err := ref.Resolve()
		if err != nil {
			return time.Time{}, err
		}
		return w.Start, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or 2025-Q1/W3): %w", s, err)
	}
	return WeekStart(d), nil
}

// MarshalText encodes the quarter as "2025-Q1".
func (q Quarter) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quarter) UnmarshalText(b []byte) error {
	parsed, err := ParseQuarter(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
