// Package period models the calendar month a payroll is computed for.
package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("period: month must be 1-12 and year 1900-9999")

type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func New(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func Of(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 || p.Year < 1900 || p.Year > 9999 {
		return ErrInvalidPeriod
	}
	return nil
}

// Start is the first day of the month at 00:00 UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month at 00:00 UTC.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

func (p Period) AddMonths(n int) Period {
	return Of(p.Start().AddDate(0, n, 0))
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Window returns n consecutive periods ending at (and including) p, oldest first.
func (p Period) Window(n int) []Period {
	if n <= 0 {
		return nil
	}
	out := make([]Period, n)
	for i := 0; i < n; i++ {
		out[i] = p.AddMonths(i - n + 1)
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Weekdays counts Monday-Friday dates in [from, to], both inclusive. Saturdays and Sundays are
// never counted and no holiday calendar is consulted.
func Weekdays(from, to time.Time) int {
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return 0
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// Clip bounds [from, to] to the month. ok is false when the range does not touch the month.
func (p Period) Clip(from, to time.Time) (time.Time, time.Time, bool) {
	from, to = dateOnly(from), dateOnly(to)
	start, end := p.Start(), p.End()

	if to.Before(start) || from.After(end) || to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	if from.Before(start) {
		from = start
	}
	if to.After(end) {
		to = end
	}
	return from, to, true
}
