package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/legoplanner/legoplanner/internal/weeks"
	"github.com/spf13/pflag"
)

// quarterValue is a pflag.Value accepting 2025-Q1, Q1-2025 and friends.
type quarterValue struct {
	q   *weeks.Quarter
	set bool
}

var _ pflag.Value = (*quarterValue)(nil)

func newQuarterValue(q *weeks.Quarter) *quarterValue {
	return &quarterValue{q: q}
}

func (v *quarterValue) String() string {
	if v.q == nil || v.q.Q == 0 {
		return ""
	}
	return v.q.String()
}

func (v *quarterValue) Set(s string) error {
	q, err := weeks.ParseQuarter(s)
	if err != nil {
		return err
	}
	*v.q = q
	v.set = true
	return nil
}

func (v *quarterValue) Type() string { return "quarter" }

// resolveQuarter picks the quarter from a positional argument, or the
// current quarter when none is given.
func resolveQuarter(app *App, args []string) (weeks.Quarter, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		q, err := weeks.ParseQuarter(args[0])
		if err != nil {
			return weeks.Quarter{}, err
		}
		return q, q.Validate()
	}
	return currentQuarter(app.now()), nil
}

// currentQuarter returns the planning quarter whose buckets contain today.
// Around New Year a date can sit in the previous year's Q4 or next year's Q1.
func currentQuarter(now time.Time) weeks.Quarter {
	if q, _, err := weeks.Locate(now); err == nil {
		return q
	}
	return weeks.CurrentQuarter(now)
}

// parseWeekRange turns --from/--to/--weeks into an inclusive Monday range.
// Dates are snapped back to their Monday; QUARTER/WN refs are accepted.
func parseWeekRange(from, to string, count int) (time.Time, time.Time, error) {
	if from == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from is required")
	}
	start, err := weeks.ParseMonday(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	switch {
	case to != "" && count > 0:
		return time.Time{}, time.Time{}, fmt.Errorf("use either --to or --weeks, not both")
	case to != "":
		end, err := weeks.ParseMonday(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s",
				end.Format(weeks.DateLayout), start.Format(weeks.DateLayout))
		}
		return start, end, nil
	case count < 0:
		return time.Time{}, time.Time{}, fmt.Errorf("--weeks must be positive")
	case count > 0:
		return start, start.AddDate(0, 0, 7*(count-1)), nil
	default:
		return start, start, nil
	}
}
