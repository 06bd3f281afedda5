/*
attendance.go - Daily entry mutation with delta-based running totals

PURPOSE:
  Creates, amends and deletes daily entries while keeping the period's
  accrued totals consistent. Updates adjust totals by the delta between
  old and new values, never by resetting to absolutes: replacing an
  advance recomputes against the previous advance amount, not zero.

WHAT IT CHECKS:
  1. Presence is in the fixed vocabulary; amounts are non-negative.
  2. The day is not in the future and not behind the settlement boundary.
  3. At most one entry per day: a second submission for the same
     worker+day observes ErrEntryExists, it never overwrites.
  4. Amend/delete only within the period's own calendar month.

SEE ALSO:
  - batch.go: per-worker batch submission built on AddEntry
  - settlement.go: consumes the entries this file maintains
*/
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hazri/wagebook/calendar"
)

// EntryInput is the validated command to record one day's attendance.
// Date is the entry's own resolved date: its weekday name is stored with
// the entry, so backfilled days carry their true day name.
type EntryInput struct {
	Date           calendar.Date
	Presence       Presence
	Wage           decimal.Decimal
	AdvanceAmount  decimal.Decimal
	AdvancePurpose string
}

// AddEntry records attendance for the day of in.Date.
func AddEntry(p *Period, in EntryInput, today calendar.Date) (DailyEntry, error) {
	if !in.Presence.Valid() {
		return DailyEntry{}, Validationf("invalid presence %q", in.Presence)
	}
	if in.Wage.IsNegative() {
		return DailyEntry{}, Validationf("wage amount must not be negative")
	}
	if in.AdvanceAmount.IsNegative() {
		return DailyEntry{}, Validationf("advance amount must not be negative")
	}

	day := in.Date.DayOfMonth
	if day < 1 || day > p.DaysInMonth {
		return DailyEntry{}, Validationf("day %d out of range for this month", day)
	}
	if day > today.DayOfMonth {
		return DailyEntry{}, ErrFutureDay
	}
	if day <= p.LastBoundary() {
		return DailyEntry{}, ErrSettledDay
	}
	if p.entryIndex(day) >= 0 {
		return DailyEntry{}, ErrEntryExists
	}

	entry := DailyEntry{
		Day:        in.Date.DayName(),
		DayOfMonth: day,
		Presence:   in.Presence,
		Wage:       in.Wage,
	}
	if in.AdvanceAmount.IsPositive() {
		entry.Advance = &Advance{
			Amount:  in.AdvanceAmount,
			Purpose: advancePurpose(in.AdvancePurpose),
		}
		p.AccruedAdvance = p.AccruedAdvance.Add(in.AdvanceAmount)
	}

	p.Entries = append(p.Entries, entry)
	p.AccruedWages = p.AccruedWages.Add(in.Wage)
	return entry, nil
}

// EntryUpdate amends an existing entry. Nil fields are left untouched.
// An AdvanceAmount of zero removes the advance.
type EntryUpdate struct {
	Presence       *Presence
	Wage           *decimal.Decimal
	AdvanceAmount  *decimal.Decimal
	AdvancePurpose string
}

// UpdateEntry amends the entry for the day.
func UpdateEntry(p *Period, dayOfMonth int, upd EntryUpdate, today calendar.Date) (DailyEntry, error) {
	if err := mutableDay(p, dayOfMonth, today); err != nil {
		return DailyEntry{}, err
	}
	i := p.entryIndex(dayOfMonth)
	if i < 0 {
		return DailyEntry{}, ErrEntryNotFound
	}
	entry := &p.Entries[i]

	if upd.Presence != nil {
		if !upd.Presence.Valid() {
			return DailyEntry{}, Validationf("invalid presence %q", *upd.Presence)
		}
		entry.Presence = *upd.Presence
	}

	if upd.Wage != nil {
		if upd.Wage.IsNegative() {
			return DailyEntry{}, Validationf("wage amount must not be negative")
		}
		p.AccruedWages = p.AccruedWages.Sub(entry.Wage).Add(*upd.Wage)
		entry.Wage = *upd.Wage
	}

	if upd.AdvanceAmount != nil {
		if upd.AdvanceAmount.IsNegative() {
			return DailyEntry{}, Validationf("advance amount must not be negative")
		}
		// Delta against the previous advance, which may be absent.
		p.AccruedAdvance = p.AccruedAdvance.Sub(entry.advanceAmount()).Add(*upd.AdvanceAmount)
		if upd.AdvanceAmount.IsPositive() {
			entry.Advance = &Advance{
				Amount:  *upd.AdvanceAmount,
				Purpose: advancePurpose(upd.AdvancePurpose),
			}
		} else {
			entry.Advance = nil
		}
	}

	return *entry, nil
}

// DeleteEntry removes the entry for the day and backs its contributions
// out of the running totals.
func DeleteEntry(p *Period, dayOfMonth int, today calendar.Date) error {
	if err := mutableDay(p, dayOfMonth, today); err != nil {
		return err
	}
	i := p.entryIndex(dayOfMonth)
	if i < 0 {
		return ErrEntryNotFound
	}
	entry := p.Entries[i]

	p.AccruedWages = p.AccruedWages.Sub(entry.Wage)
	p.AccruedAdvance = p.AccruedAdvance.Sub(entry.advanceAmount())
	p.Entries = append(p.Entries[:i], p.Entries[i+1:]...)
	return nil
}

// mutableDay enforces the amend/delete constraints: the day must be past
// the settlement boundary and the period must be the current month.
func mutableDay(p *Period, dayOfMonth int, today calendar.Date) error {
	if dayOfMonth <= p.LastBoundary() {
		return ErrSettledDay
	}
	if p.Year != today.Year || p.MonthIndex != today.MonthIndex {
		return ErrWrongMonth
	}
	return nil
}

func advancePurpose(purpose string) string {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return DefaultAdvancePurpose
	}
	return purpose
}
