/*
Package calendar defines the date oracle the ledger engine runs against.

PURPOSE:
  The engine never does calendar math itself. Every date-sensitive rule
  (no future entries, no future settlement, same-day adjustment window)
  works on a resolved Date handed in by the caller. The Oracle is the only
  thing that knows how to turn "now" or a (year, month, day) triple into
  a Date.

WHY AN INTERFACE?
  The reference deployment of this system runs on the Bikram Sambat
  calendar, resolved from conversion tables. The engine must not care:
  months have 29-32 days, month indexes are 0-based, weekdays start on
  sunday, and that is the whole contract. The Gregorian implementation in
  gregorian.go is the default; a table-driven BS oracle drops in behind
  the same interface.

SEE ALSO:
  - gregorian.go: default implementation
  - ledger: consumes Date, never the clock
*/
package calendar

import "fmt"

// DayNames maps a 0-based weekday (sunday = 0) to its lowercase name.
// The persisted entry and settlement shapes store these names verbatim.
var DayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// Date is a fully resolved calendar date.
//
// MonthIndex is 0-based. DayOfWeek is 0-based with sunday = 0.
// DaysInMonth is the length of the month containing the date; depending on
// the calendar system it ranges 28-32.
type Date struct {
	Year        int
	MonthIndex  int
	DayOfMonth  int
	DayOfWeek   int
	DaysInMonth int
}

// DayName returns the lowercase weekday name for the date.
func (d Date) DayName() string {
	return DayNames[((d.DayOfWeek%7)+7)%7]
}

// SameMonth reports whether two dates fall in the same calendar month.
func (d Date) SameMonth(other Date) bool {
	return d.Year == other.Year && d.MonthIndex == other.MonthIndex
}

// After reports whether the month of d is strictly after the month of other.
// Day-of-month is irrelevant: this is the rollover trigger comparison.
func (d Date) AfterMonth(other Date) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	return d.MonthIndex > other.MonthIndex
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.MonthIndex+1, d.DayOfMonth)
}

// Oracle resolves dates in whatever calendar system the deployment uses.
type Oracle interface {
	// Today resolves the current date.
	Today() Date

	// Resolve resolves an explicit (year, 0-based monthIndex, dayOfMonth)
	// triple. Used to derive the weekday name of a backfilled entry, which
	// belongs to the entry's own date, not to the day it was recorded.
	Resolve(year, monthIndex, dayOfMonth int) (Date, error)
}
