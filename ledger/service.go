/*
service.go - Period lifecycle and store orchestration

PURPOSE:
  Wires the pure engine (attendance.go, settlement.go, adjustment.go) to
  the calendar oracle and the stores. Handlers talk to the Service; the
  Service resolves "today" exactly once per operation and hands it down,
  so nothing below this layer touches the clock.

PERIOD LIFECYCLE:
  A period is opened when a worker has none for the current month: at
  worker creation, or after rollover parked the old one as "previous".
  Opening with a pending previous period first reuses it when it is still
  the current month, otherwise settles it in full and carries the
  resulting balance into the new period.

SEE ALSO:
  - workers.go: worker management and the month rollover coordinator
  - batch.go: batched attendance submission
*/
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hazri/wagebook/calendar"
)

type Service struct {
	Cal   calendar.Oracle
	Store Store

	mu    sync.Mutex
	locks map[PeriodID]*periodLock
}

func NewService(cal calendar.Oracle, store Store) *Service {
	return &Service{Cal: cal, Store: store, locks: make(map[PeriodID]*periodLock)}
}

// NewID mints a random document id.
func NewID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b[:])
}

// =============================================================================
// PERIOD LOCKING
// =============================================================================

// periodLock is one period's writer lock plus a reference count so the
// lock table does not grow with every period ever touched.
type periodLock struct {
	sync.Mutex
	refs int
}

// lockPeriod serializes the load-mutate-save sequence for one period and
// returns the unlock. Store calls are individually atomic, but totals
// are maintained by accumulation: the gap between Period and SavePeriod
// must not admit a second writer, or the second submission for a day
// would overwrite the first instead of observing ErrEntryExists.
func (s *Service) lockPeriod(id PeriodID) func() {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[PeriodID]*periodLock)
	}
	l := s.locks[id]
	if l == nil {
		l = &periodLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// =============================================================================
// PERIOD LIFECYCLE
// =============================================================================

// OpenPeriod opens the current month's period for the worker. When a
// previous period is pending it is settled (or reused, if it is still
// this month) and its carried balance flows into the new period. The
// returned SettlementResult is non-nil only when a final settlement ran.
func (s *Service) OpenPeriod(ctx context.Context, workerID WorkerID) (*Period, *SettlementResult, error) {
	worker, err := s.Store.Worker(ctx, workerID)
	if err != nil {
		return nil, nil, err
	}
	if worker.CurrentPeriodID != "" {
		return nil, nil, ErrPeriodExists
	}

	today := s.Cal.Today()
	period := NewPeriod(PeriodID(NewID()), worker.ID, today.Year, today.MonthIndex, today.DaysInMonth)
	var settled *SettlementResult

	if worker.PreviousPeriodID != "" {
		unlock := s.lockPeriod(worker.PreviousPeriodID)
		defer unlock()
		prev, err := s.Store.Period(ctx, worker.PreviousPeriodID)
		if err != nil {
			return nil, nil, err
		}
		if today.SameMonth(calendar.Date{Year: prev.Year, MonthIndex: prev.MonthIndex}) {
			// Rollover parked it, but the month has not actually changed
			// for this period: reuse instead of opening a duplicate.
			period = prev
		} else {
			settled, err = SettleFinal(prev, today)
			if err != nil {
				return nil, nil, err
			}
			if err := s.Store.SavePeriod(ctx, prev); err != nil {
				return nil, nil, err
			}
			period.CarriedWages = settled.CarriedWages
			period.CarriedAdvance = settled.CarriedAdvance
		}
	}

	if err := s.Store.SavePeriod(ctx, period); err != nil {
		return nil, nil, err
	}
	worker.CurrentPeriodID = period.ID
	worker.PreviousPeriodID = ""
	if err := s.Store.SaveWorker(ctx, worker); err != nil {
		return nil, nil, err
	}
	return period, settled, nil
}

// GetPeriod returns the period with entries sorted by day.
func (s *Service) GetPeriod(ctx context.Context, id PeriodID) (*Period, error) {
	p, err := s.Store.Period(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Entries = p.SortedEntries()
	return p, nil
}

// PeriodMonths lists a worker's recorded months for a year.
func (s *Service) PeriodMonths(ctx context.Context, workerID WorkerID, year int) ([]PeriodMonth, error) {
	return s.Store.PeriodMonths(ctx, workerID, year)
}

// DeletePeriods bulk-deletes a worker's old periods. The worker's current
// and previous periods are silently excluded; deleting nothing is an error.
func (s *Service) DeletePeriods(ctx context.Context, workerID WorkerID, ids []PeriodID) (int, error) {
	worker, err := s.Store.Worker(ctx, workerID)
	if err != nil {
		return 0, err
	}
	keep := make([]PeriodID, 0, len(ids))
	for _, id := range ids {
		if id == worker.CurrentPeriodID || id == worker.PreviousPeriodID {
			continue
		}
		keep = append(keep, id)
	}
	if len(keep) == 0 {
		return 0, Validationf("no records to delete")
	}
	return s.Store.DeletePeriods(ctx, workerID, keep)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceInput is the loosely-typed boundary shape, coerced here into
// the engine's EntryInput before anything touches the period.
type AttendanceInput struct {
	DayOfMonth     int
	Presence       Presence
	Wage           decimal.Decimal
	AdvanceAmount  decimal.Decimal
	AdvancePurpose string
}

// RecordAttendance records one day's attendance on the period.
func (s *Service) RecordAttendance(ctx context.Context, periodID PeriodID, in AttendanceInput) (DailyEntry, error) {
	unlock := s.lockPeriod(periodID)
	defer unlock()
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return DailyEntry{}, err
	}
	entryDate, err := s.Cal.Resolve(p.Year, p.MonthIndex, in.DayOfMonth)
	if err != nil {
		return DailyEntry{}, Validationf("invalid day %d for this month", in.DayOfMonth)
	}
	entry, err := AddEntry(p, EntryInput{
		Date:           entryDate,
		Presence:       in.Presence,
		Wage:           in.Wage,
		AdvanceAmount:  in.AdvanceAmount,
		AdvancePurpose: in.AdvancePurpose,
	}, s.Cal.Today())
	if err != nil {
		return DailyEntry{}, err
	}
	if err := s.Store.SavePeriod(ctx, p); err != nil {
		return DailyEntry{}, err
	}
	return entry, nil
}

// UpdateAttendance amends an entry.
func (s *Service) UpdateAttendance(ctx context.Context, periodID PeriodID, dayOfMonth int, upd EntryUpdate) (DailyEntry, error) {
	unlock := s.lockPeriod(periodID)
	defer unlock()
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return DailyEntry{}, err
	}
	entry, err := UpdateEntry(p, dayOfMonth, upd, s.Cal.Today())
	if err != nil {
		return DailyEntry{}, err
	}
	if err := s.Store.SavePeriod(ctx, p); err != nil {
		return DailyEntry{}, err
	}
	return entry, nil
}

// DeleteAttendance removes an entry.
func (s *Service) DeleteAttendance(ctx context.Context, periodID PeriodID, dayOfMonth int) error {
	unlock := s.lockPeriod(periodID)
	defer unlock()
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return err
	}
	if err := DeleteEntry(p, dayOfMonth, s.Cal.Today()); err != nil {
		return err
	}
	return s.Store.SavePeriod(ctx, p)
}

// AttendanceDoneToday reports whether today's entry exists on the period.
func (s *Service) AttendanceDoneToday(ctx context.Context, periodID PeriodID) (bool, error) {
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return false, err
	}
	_, ok := p.EntryAt(s.Cal.Today().DayOfMonth)
	return ok, nil
}

// =============================================================================
// SETTLEMENT
// =============================================================================

// Settle settles the period up to settlementDay.
func (s *Service) Settle(ctx context.Context, periodID PeriodID, settlementDay int) (*SettlementResult, error) {
	unlock := s.lockPeriod(periodID)
	defer unlock()
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return nil, err
	}
	res, err := Settle(p, settlementDay, s.Cal.Today())
	if err != nil {
		return nil, err
	}
	if err := s.Store.SavePeriod(ctx, p); err != nil {
		return nil, err
	}
	return res, nil
}

// Adjust records a cash installment against the newest settlement.
func (s *Service) Adjust(ctx context.Context, periodID PeriodID, settlementDay int, givenAmount decimal.Decimal) (Settlement, error) {
	unlock := s.lockPeriod(periodID)
	defer unlock()
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return Settlement{}, err
	}
	adjusted, err := AdjustSettlement(p, settlementDay, givenAmount, s.Cal.Today())
	if err != nil {
		return Settlement{}, err
	}
	if err := s.Store.SavePeriod(ctx, p); err != nil {
		return Settlement{}, err
	}
	return adjusted, nil
}

// Settlements returns the period's settlement history.
func (s *Service) Settlements(ctx context.Context, periodID PeriodID) ([]Settlement, error) {
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return p.Settlements, nil
}

// SettlementAt returns one settlement; day 0 means the newest.
func (s *Service) SettlementAt(ctx context.Context, periodID PeriodID, dayOfMonth int) (Settlement, error) {
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return Settlement{}, err
	}
	if dayOfMonth == 0 {
		if p.LastSettlement == nil {
			return Settlement{}, ErrNoSettlement
		}
		dayOfMonth = p.LastSettlement.DayOfMonth
	}
	settlement, ok := p.SettlementAt(dayOfMonth)
	if !ok {
		return Settlement{}, ErrSettlementNotFound
	}
	return settlement, nil
}

// SettlementCheck is the "was a settlement done today" answer, with the
// window it covered for the payment summary screen.
type SettlementCheck struct {
	AlreadySettled bool        `json:"alreadySettled"`
	Settlement     *Settlement `json:"settlement,omitempty"`
	FromDay        int         `json:"fromDate,omitempty"`
	ToDay          int         `json:"toDate,omitempty"`
}

// SettlementDoneToday reports whether the period was settled today.
func (s *Service) SettlementDoneToday(ctx context.Context, periodID PeriodID) (*SettlementCheck, error) {
	p, err := s.Store.Period(ctx, periodID)
	if err != nil {
		return nil, err
	}
	today := s.Cal.Today()
	if p.LastSettlement == nil || p.LastSettlement.PerformedOn != today.DayOfMonth {
		return &SettlementCheck{}, nil
	}
	newest, _ := p.SettlementAt(p.LastSettlement.DayOfMonth)
	from := 1
	if n := len(p.Settlements); n > 1 {
		from = p.Settlements[n-2].DayOfMonth
	}
	return &SettlementCheck{
		AlreadySettled: true,
		Settlement:     &newest,
		FromDay:        from,
		ToDay:          newest.DayOfMonth,
	}, nil
}

// =============================================================================
// CALENDAR EVENTS - Month view merge of entries and settlements
// =============================================================================

// CalendarDay is one day of the month view: an entry, a settlement, or both.
type CalendarDay struct {
	DayOfMonth int             `json:"dayOfMonth"`
	Day        string          `json:"day"`
	Presence   Presence        `json:"presence,omitempty"`
	Wage       decimal.Decimal `json:"wageAmount"`
	Advance    *Advance        `json:"advance,omitempty"`
	Settlement *Settlement     `json:"settlement,omitempty"`
}

type CalendarEvents struct {
	Days           []CalendarDay `json:"dailyRecords"`
	DaysInMonth    int           `json:"numberOfDays"`
	FirstDayOfWeek int           `json:"dayIndex"`
	LastBoundary   int           `json:"lastSettlementDate"`
}

// CalendarEvents merges the worker's entries and settlements of one month
// of the current year into a day-indexed view. monthIndex < 0 means the
// current month. A month with no period yields an empty view.
func (s *Service) CalendarEvents(ctx context.Context, workerID WorkerID, monthIndex int) (*CalendarEvents, error) {
	today := s.Cal.Today()
	if monthIndex < 0 {
		monthIndex = today.MonthIndex
	}
	first, err := s.Cal.Resolve(today.Year, monthIndex, 1)
	if err != nil {
		return nil, Validationf("invalid month index %d", monthIndex)
	}

	events := &CalendarEvents{
		Days:           []CalendarDay{},
		DaysInMonth:    first.DaysInMonth,
		FirstDayOfWeek: first.DayOfWeek,
	}

	p, err := s.Store.PeriodByMonth(ctx, workerID, today.Year, monthIndex)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return events, nil
		}
		return nil, err
	}

	byDay := make(map[int]*CalendarDay, len(p.Entries)+len(p.Settlements))
	for _, e := range p.SortedEntries() {
		e := e
		byDay[e.DayOfMonth] = &CalendarDay{
			DayOfMonth: e.DayOfMonth,
			Day:        e.Day,
			Presence:   e.Presence,
			Wage:       e.Wage,
			Advance:    e.Advance,
		}
	}
	for i := range p.Settlements {
		set := p.Settlements[i]
		if d, ok := byDay[set.DayOfMonth]; ok {
			d.Settlement = &set
			continue
		}
		byDay[set.DayOfMonth] = &CalendarDay{
			DayOfMonth: set.DayOfMonth,
			Day:        calendar.DayNames[(set.DayOfMonth+first.DayOfWeek-1)%7],
			Settlement: &set,
		}
	}
	for day := 1; day <= p.DaysInMonth; day++ {
		if d, ok := byDay[day]; ok {
			events.Days = append(events.Days, *d)
		}
	}
	events.DaysInMonth = p.DaysInMonth
	events.LastBoundary = p.LastBoundary()
	return events, nil
}
