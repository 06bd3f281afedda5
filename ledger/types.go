/*
Package ledger implements the monthly wage ledger for daily-wage workers.

PURPOSE:
  One Period per worker per calendar month accumulates daily attendance
  entries (wage + optional cash advance) and a history of settlement
  events. Settlement closes out the window since the previous boundary
  into a net payable (carried wages) or net owed (carried advance) amount
  that rolls forward across months.

KEY CONCEPTS IN THIS FILE (types.go):
  - Period: the per-worker, per-month ledger document
  - DailyEntry: one day's attendance, unique by day-of-month
  - Settlement: a boundary event with a wages-or-advance outcome
  - Worker / Contractor: the owning entities and their period pointers

CRITICAL INVARIANTS:
  1. At most one DailyEntry per day-of-month.
  2. Settlements are ordered by day-of-month and the boundary only advances.
  3. CarriedWages and CarriedAdvance are never both non-zero: they are one
     signed balance stored as two non-negative magnitudes. The only writer
     is setCarried.
  4. Entries at or before the last boundary are immutable.

DESIGN PRINCIPLES:
  - Precision: decimal.Decimal for every money field, never floats.
  - Determinism: no operation reads the clock; callers pass a resolved
    calendar.Date for "today".

SEE ALSO:
  - settlement.go: window settlement and final (rollover) settlement
  - attendance.go: entry mutation with delta-based running totals
  - adjustment.go: same-day partial payment against a settlement
  - service.go: period lifecycle, rollover, store orchestration
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string
type PeriodID string
type ContractorID string

// =============================================================================
// PRESENCE - Fixed attendance vocabulary
// =============================================================================

type Presence string

const (
	PresenceHalf       Presence = "half"
	PresencePresent    Presence = "present"
	PresenceAbsent     Presence = "absent"
	PresenceOneAndHalf Presence = "one-and-half"
)

// Valid reports whether p is in the fixed vocabulary.
func (p Presence) Valid() bool {
	switch p {
	case PresenceHalf, PresencePresent, PresenceAbsent, PresenceOneAndHalf:
		return true
	}
	return false
}

// DefaultAdvancePurpose is recorded when an advance is given without one.
const DefaultAdvancePurpose = "General Work"

// =============================================================================
// DAILY ENTRY
// =============================================================================

// Advance is cash handed to the worker during the day.
type Advance struct {
	Amount  decimal.Decimal `json:"amount"`
	Purpose string          `json:"purpose"`
}

// DailyEntry is one day's attendance. Identity is DayOfMonth; presence,
// wage and advance are mutable until the day falls behind a settlement
// boundary.
type DailyEntry struct {
	Day        string          `json:"day"` // weekday name of the entry's own date
	DayOfMonth int             `json:"dayOfMonth"`
	Presence   Presence        `json:"presence"`
	Wage       decimal.Decimal `json:"wageAmount"`
	Advance    *Advance        `json:"advance,omitempty"`
}

func (e DailyEntry) advanceAmount() decimal.Decimal {
	if e.Advance == nil {
		return decimal.Zero
	}
	return e.Advance.Amount
}

// =============================================================================
// SETTLEMENT
// =============================================================================

// Settlement records one boundary event. Exactly one of WagesOccurred /
// AdvanceOccurred is positive, or both are zero (balanced settlement).
// AmountTaken is the cash actually paid so far against this settlement;
// it only grows through AdjustSettlement.
type Settlement struct {
	DayOfMonth         int             `json:"dayOfMonth"`
	WagesOccurred      decimal.Decimal `json:"wagesOccurred"`
	AdvanceOccurred    decimal.Decimal `json:"advanceOccurred"`
	AmountTaken        decimal.Decimal `json:"amountTaken"`
	WagesTransferred   decimal.Decimal `json:"wagesTransferred"`
	AdvanceTransferred decimal.Decimal `json:"advanceTransferred"`
}

// SettlementStamp marks the most recent settlement boundary.
// PerformedOn is the day-of-month the settlement was carried out, which
// bounds the adjustment window to that same calendar day.
type SettlementStamp struct {
	DayOfMonth  int    `json:"dayOfMonth"`
	PerformedOn int    `json:"performedOnDayOfMonth"`
	DayName     string `json:"dayName"`
}

// =============================================================================
// PERIOD - One worker's ledger for one calendar month
// =============================================================================

type Period struct {
	ID          PeriodID `json:"id"`
	WorkerID    WorkerID `json:"workerId"`
	Year        int      `json:"year"`
	MonthIndex  int      `json:"monthIndex"` // 0-based
	DaysInMonth int      `json:"numberOfDaysInMonth"`

	Entries     []DailyEntry `json:"dailyEntries"`
	Settlements []Settlement `json:"settlements"`

	LastSettlement *SettlementStamp `json:"lastSettlementDate,omitempty"`

	// Carried* is the signed net balance from past settlements, stored as
	// two non-negative magnitudes. Never both non-zero.
	CarriedWages   decimal.Decimal `json:"carriedWages"`
	CarriedAdvance decimal.Decimal `json:"carriedAdvance"`

	// Accrued* are running totals of entries recorded after the last
	// settlement boundary. Settlement math recomputes window sums from the
	// entries instead of trusting these; they exist for summary views and
	// the persisted document shape.
	AccruedWages   decimal.Decimal `json:"accruedWages"`
	AccruedAdvance decimal.Decimal `json:"accruedAdvance"`
}

// NewPeriod opens a ledger period for the month of the given date.
func NewPeriod(id PeriodID, workerID WorkerID, year, monthIndex, daysInMonth int) *Period {
	return &Period{
		ID:          id,
		WorkerID:    workerID,
		Year:        year,
		MonthIndex:  monthIndex,
		DaysInMonth: daysInMonth,
	}
}

// LastBoundary returns the day-of-month of the most recent settlement,
// or 0 when the period has never been settled.
func (p *Period) LastBoundary() int {
	if p.LastSettlement == nil {
		return 0
	}
	return p.LastSettlement.DayOfMonth
}

// FullySettled reports whether the boundary has reached the end of month.
func (p *Period) FullySettled() bool {
	return p.LastBoundary() == p.DaysInMonth
}

// entryIndex returns the index of the entry for the day, or -1.
func (p *Period) entryIndex(dayOfMonth int) int {
	for i := range p.Entries {
		if p.Entries[i].DayOfMonth == dayOfMonth {
			return i
		}
	}
	return -1
}

// EntryAt returns the entry for the day, if any.
func (p *Period) EntryAt(dayOfMonth int) (DailyEntry, bool) {
	i := p.entryIndex(dayOfMonth)
	if i < 0 {
		return DailyEntry{}, false
	}
	return p.Entries[i], true
}

// SettlementAt returns the settlement at the boundary day, if any.
func (p *Period) SettlementAt(dayOfMonth int) (Settlement, bool) {
	i := p.settlementIndex(dayOfMonth)
	if i < 0 {
		return Settlement{}, false
	}
	return p.Settlements[i], true
}

func (p *Period) settlementIndex(dayOfMonth int) int {
	for i := range p.Settlements {
		if p.Settlements[i].DayOfMonth == dayOfMonth {
			return i
		}
	}
	return -1
}

// SortedEntries returns the entries ordered by day-of-month.
func (p *Period) SortedEntries() []DailyEntry {
	out := make([]DailyEntry, len(p.Entries))
	copy(out, p.Entries)
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfMonth < out[j].DayOfMonth })
	return out
}

// windowTotals sums wages and advances over entries with
// from < dayOfMonth <= to.
func (p *Period) windowTotals(from, to int) (wages, advance decimal.Decimal) {
	wages, advance = decimal.Zero, decimal.Zero
	for i := range p.Entries {
		d := p.Entries[i].DayOfMonth
		if d > from && d <= to {
			wages = wages.Add(p.Entries[i].Wage)
			advance = advance.Add(p.Entries[i].advanceAmount())
		}
	}
	return wages, advance
}

// setCarried is the only writer of the carried balance pair. A positive
// net stores into CarriedWages, a negative net into CarriedAdvance, so
// the mutual exclusivity invariant holds by construction.
func (p *Period) setCarried(net decimal.Decimal) {
	switch {
	case net.IsPositive():
		p.CarriedWages = net
		p.CarriedAdvance = decimal.Zero
	case net.IsNegative():
		p.CarriedWages = decimal.Zero
		p.CarriedAdvance = net.Abs()
	default:
		p.CarriedWages = decimal.Zero
		p.CarriedAdvance = decimal.Zero
	}
}

// carriedNet returns the carried balance as one signed quantity.
func (p *Period) carriedNet() decimal.Decimal {
	return p.CarriedWages.Sub(p.CarriedAdvance)
}

// =============================================================================
// WORKER
// =============================================================================

type Role string

const (
	RoleMistri  Role = "mistri"
	RoleLabour  Role = "labour"
	RoleGeneral Role = "general"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMistri, RoleLabour, RoleGeneral:
		return true
	}
	return false
}

// JoiningDate is the calendar date the worker was registered.
type JoiningDate struct {
	Year       int `json:"year"`
	MonthIndex int `json:"monthIndex"`
	DayOfMonth int `json:"dayOfMonth"`
}

// Worker holds identity, the daily wage rate, and weak references (by id,
// not ownership) to the active and the pending-settlement ledger periods.
// In steady state at most one of each is set; both empty means newly
// created or fully settled and closed.
type Worker struct {
	ID            WorkerID     `json:"id"`
	ContractorID  ContractorID `json:"contractorId"`
	Name          string       `json:"name"`
	Role          Role         `json:"role"`
	ContactNumber string       `json:"contactNumber,omitempty"`
	Address       string       `json:"address,omitempty"`

	DailyWage decimal.Decimal `json:"wagesPerDay"`
	Joining   JoiningDate     `json:"joiningDate"`
	Active    bool            `json:"isActive"`

	CurrentPeriodID  PeriodID `json:"currentPeriodId,omitempty"`
	PreviousPeriodID PeriodID `json:"previousPeriodId,omitempty"`
}

// =============================================================================
// CONTRACTOR - The tenant
// =============================================================================

// RunningDate is the tenant-level month pointer the rollover coordinator
// compares against. It lags the calendar until the first interaction of a
// new month.
type RunningDate struct {
	Year       int `json:"year"`
	MonthIndex int `json:"monthIndex"`
}

type Contractor struct {
	ID           ContractorID `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	CompanyName  string       `json:"companyName"`
	RunningDate  RunningDate  `json:"runningDate"`
}
