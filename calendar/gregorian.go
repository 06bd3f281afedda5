package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// GREGORIAN ORACLE - Default implementation over the Go time package
// =============================================================================

// Gregorian resolves dates on the Gregorian calendar.
// Now is injectable so tests can pin the clock; nil means time.Now.
type Gregorian struct {
	Now func() time.Time
}

func NewGregorian() *Gregorian {
	return &Gregorian{}
}

func (g *Gregorian) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Today resolves the current date.
func (g *Gregorian) Today() Date {
	return fromTime(g.now())
}

// Resolve resolves an explicit date. MonthIndex is 0-based.
func (g *Gregorian) Resolve(year, monthIndex, dayOfMonth int) (Date, error) {
	if monthIndex < 0 || monthIndex > 11 {
		return Date{}, fmt.Errorf("calendar: month index %d out of range", monthIndex)
	}
	days := daysIn(year, time.Month(monthIndex+1))
	if dayOfMonth < 1 || dayOfMonth > days {
		return Date{}, fmt.Errorf("calendar: day %d out of range for %04d-%02d", dayOfMonth, year, monthIndex+1)
	}
	t := time.Date(year, time.Month(monthIndex+1), dayOfMonth, 0, 0, 0, 0, time.UTC)
	return fromTime(t), nil
}

func fromTime(t time.Time) Date {
	return Date{
		Year:        t.Year(),
		MonthIndex:  int(t.Month()) - 1,
		DayOfMonth:  t.Day(),
		DayOfWeek:   int(t.Weekday()),
		DaysInMonth: daysIn(t.Year(), t.Month()),
	}
}

// daysIn returns the number of days in a month: day zero of the next month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var _ Oracle = (*Gregorian)(nil)
