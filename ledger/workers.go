/*
workers.go - Worker management and the month rollover coordinator

PURPOSE:
  Workers belong to a contractor (the tenant). Creating a worker opens
  the first ledger period immediately; deactivating parks the current
  period as "previous" for deferred settlement.

ROLLOVER:
  The tenant record carries a running {year, monthIndex} pointer that
  lags the calendar. On the first qualifying request of a new month the
  coordinator parks every active worker's current period as previous,
  clears the current pointer, and advances the running date. Actual
  settlement of the parked period is deferred until OpenPeriod runs for
  that worker. There is no timer; the next request does the work.

SEE ALSO:
  - service.go: OpenPeriod settles the parked previous period
*/
package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hazri/wagebook/calendar"
)

// =============================================================================
// WORKER MANAGEMENT
// =============================================================================

// WorkerInput is the boundary shape for creating a worker.
type WorkerInput struct {
	Name          string
	Role          Role
	ContactNumber string
	Address       string
	DailyWage     decimal.Decimal
}

// CreateWorker registers a worker and opens their first ledger period.
func (s *Service) CreateWorker(ctx context.Context, contractorID ContractorID, in WorkerInput) (*Worker, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validationf("worker name is required")
	}
	if !in.Role.Valid() {
		return nil, Validationf("invalid worker role %q", in.Role)
	}
	if !in.DailyWage.IsPositive() {
		return nil, Validationf("daily wage must be positive")
	}

	today := s.Cal.Today()
	worker := &Worker{
		ID:            WorkerID(NewID()),
		ContractorID:  contractorID,
		Name:          name,
		Role:          in.Role,
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Address:       strings.TrimSpace(in.Address),
		DailyWage:     in.DailyWage,
		Joining: JoiningDate{
			Year:       today.Year,
			MonthIndex: today.MonthIndex,
			DayOfMonth: today.DayOfMonth,
		},
		Active: true,
	}
	if err := s.Store.SaveWorker(ctx, worker); err != nil {
		return nil, err
	}
	if _, _, err := s.OpenPeriod(ctx, worker.ID); err != nil {
		return nil, err
	}
	return s.Store.Worker(ctx, worker.ID)
}

// WorkerPatch updates profile fields; nil/empty fields are untouched.
type WorkerPatch struct {
	Name          string
	ContactNumber string
	Address       string
	Role          Role
	DailyWage     *decimal.Decimal
}

// UpdateWorker patches a worker owned by the contractor.
func (s *Service) UpdateWorker(ctx context.Context, contractorID ContractorID, workerID WorkerID, patch WorkerPatch) (*Worker, error) {
	worker, err := s.ownedWorker(ctx, contractorID, workerID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(patch.Name); v != "" {
		worker.Name = v
	}
	if v := strings.TrimSpace(patch.ContactNumber); v != "" {
		worker.ContactNumber = v
	}
	if v := strings.TrimSpace(patch.Address); v != "" {
		worker.Address = v
	}
	if patch.Role != "" {
		if !patch.Role.Valid() {
			return nil, Validationf("invalid worker role %q", patch.Role)
		}
		worker.Role = patch.Role
	}
	if patch.DailyWage != nil {
		if !patch.DailyWage.IsPositive() {
			return nil, Validationf("daily wage must be positive")
		}
		worker.DailyWage = *patch.DailyWage
	}
	if err := s.Store.SaveWorker(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// SetWorkerActive toggles a worker's active flag. The current period is
// parked as previous either way, so settlement is never lost.
func (s *Service) SetWorkerActive(ctx context.Context, contractorID ContractorID, workerID WorkerID, active bool) (*Worker, error) {
	worker, err := s.ownedWorker(ctx, contractorID, workerID)
	if err != nil {
		return nil, err
	}
	if worker.Active == active {
		return nil, Validationf("worker active status already %v", active)
	}
	if worker.CurrentPeriodID != "" {
		worker.PreviousPeriodID = worker.CurrentPeriodID
	}
	worker.CurrentPeriodID = ""
	worker.Active = active
	if err := s.Store.SaveWorker(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// WorkerSummary is a worker plus the day-marking flags and current-month
// balances the roster screen needs.
type WorkerSummary struct {
	Worker

	ReadyForSettlement bool `json:"readyForSettlement"`
	MarkedToday        bool `json:"markedToday"`
	LastBoundary       int  `json:"lastSettlementDate"`
	HighestEntryDay    int  `json:"highestDayRecord"`
	DaysInMonth        int  `json:"numberOfDaysInMonth,omitempty"`

	CarriedWages   decimal.Decimal  `json:"carriedWages"`
	CarriedAdvance decimal.Decimal  `json:"carriedAdvance"`
	AccruedWages   decimal.Decimal  `json:"accruedWages"`
	AccruedAdvance decimal.Decimal  `json:"accruedAdvance"`
	LastSettlement *SettlementStamp `json:"lastSettlement,omitempty"`
}

// ListWorkers returns the contractor's workers with roster flags:
// whether today's attendance is already marked, and whether unsettled
// entries sit past the boundary (ready for settlement).
func (s *Service) ListWorkers(ctx context.Context, contractorID ContractorID, active bool) ([]WorkerSummary, error) {
	workers, err := s.Store.Workers(ctx, contractorID, active)
	if err != nil {
		return nil, err
	}
	today := s.Cal.Today()
	summaries := make([]WorkerSummary, 0, len(workers))
	for _, w := range workers {
		sum, err := s.summarize(ctx, w, today.DayOfMonth)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *sum)
	}
	return summaries, nil
}

// WorkerDetail returns one worker with the current-month summary.
func (s *Service) WorkerDetail(ctx context.Context, contractorID ContractorID, workerID WorkerID) (*WorkerSummary, error) {
	worker, err := s.ownedWorker(ctx, contractorID, workerID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, worker, s.Cal.Today().DayOfMonth)
}

func (s *Service) summarize(ctx context.Context, w *Worker, todayDay int) (*WorkerSummary, error) {
	sum := &WorkerSummary{Worker: *w}
	if w.CurrentPeriodID == "" {
		return sum, nil
	}
	p, err := s.Store.Period(ctx, w.CurrentPeriodID)
	if err != nil {
		return nil, err
	}
	highest := 0
	for i := range p.Entries {
		if p.Entries[i].DayOfMonth > highest {
			highest = p.Entries[i].DayOfMonth
		}
	}
	boundary := p.LastBoundary()
	sum.LastBoundary = boundary
	sum.HighestEntryDay = highest
	sum.DaysInMonth = p.DaysInMonth
	sum.ReadyForSettlement = highest > boundary && boundary < todayDay
	sum.MarkedToday = highest >= todayDay
	sum.CarriedWages = p.CarriedWages
	sum.CarriedAdvance = p.CarriedAdvance
	sum.AccruedWages = p.AccruedWages
	sum.AccruedAdvance = p.AccruedAdvance
	sum.LastSettlement = p.LastSettlement
	return sum, nil
}

// DeleteWorkers removes workers and all their periods, in groups of ten,
// collecting a per-worker outcome. One failure never aborts siblings.
func (s *Service) DeleteWorkers(ctx context.Context, contractorID ContractorID, ids []WorkerID) ([]BatchOutcome, error) {
	if len(ids) == 0 {
		return nil, Validationf("no worker ids provided")
	}
	return runInGroups(len(ids), func(i int) BatchOutcome {
		id := ids[i]
		if err := s.deleteWorker(ctx, contractorID, id); err != nil {
			return BatchOutcome{WorkerID: id, Reason: err.Error()}
		}
		return BatchOutcome{WorkerID: id, Done: true}
	}), nil
}

func (s *Service) deleteWorker(ctx context.Context, contractorID ContractorID, id WorkerID) error {
	worker, err := s.ownedWorker(ctx, contractorID, id)
	if err != nil {
		return err
	}
	if _, err := s.Store.DeleteWorkerPeriods(ctx, worker.ID); err != nil {
		return err
	}
	return s.Store.DeleteWorker(ctx, worker.ID)
}

// ownedWorker loads a worker and hides other tenants' workers behind
// not-found.
func (s *Service) ownedWorker(ctx context.Context, contractorID ContractorID, id WorkerID) (*Worker, error) {
	worker, err := s.Store.Worker(ctx, id)
	if err != nil {
		return nil, err
	}
	if worker.ContractorID != contractorID {
		return nil, ErrWorkerNotFound
	}
	return worker, nil
}

// =============================================================================
// MONTH ROLLOVER COORDINATOR
// =============================================================================

// RolloverResult reports whether the month advanced and which active
// workers now need a new period opened.
type RolloverResult struct {
	Advanced    bool        `json:"isInitialCall"`
	RunningDate RunningDate `json:"runningDate"`
	Pending     []*Worker   `json:"workers"`
}

// MonthChanged reports whether the calendar has advanced past the
// tenant's running date, without mutating anything.
func (s *Service) MonthChanged(ctx context.Context, contractorID ContractorID) (bool, error) {
	c, err := s.Store.Contractor(ctx, contractorID)
	if err != nil {
		return false, err
	}
	return s.monthAdvanced(c), nil
}

func (s *Service) monthAdvanced(c *Contractor) bool {
	running := calendar.Date{Year: c.RunningDate.Year, MonthIndex: c.RunningDate.MonthIndex}
	return s.Cal.Today().AfterMonth(running)
}

// Rollover advances the tenant into the new month. For every active
// worker the current period is parked as previous (workers with no
// current period keep their previous pointer untouched) and the current
// pointer is cleared. Idempotent: a second call in the same month only
// reports the workers still pending a new period.
func (s *Service) Rollover(ctx context.Context, contractorID ContractorID) (*RolloverResult, error) {
	c, err := s.Store.Contractor(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	today := s.Cal.Today()
	advanced := s.monthAdvanced(c)

	if advanced {
		workers, err := s.Store.Workers(ctx, c.ID, true)
		if err != nil {
			return nil, err
		}
		for _, w := range workers {
			if w.CurrentPeriodID != "" {
				w.PreviousPeriodID = w.CurrentPeriodID
			}
			w.CurrentPeriodID = ""
			if err := s.Store.SaveWorker(ctx, w); err != nil {
				return nil, err
			}
		}
		c.RunningDate = RunningDate{Year: today.Year, MonthIndex: today.MonthIndex}
		if err := s.Store.SaveContractor(ctx, c); err != nil {
			return nil, err
		}
	}

	workers, err := s.Store.Workers(ctx, c.ID, true)
	if err != nil {
		return nil, err
	}
	pending := make([]*Worker, 0, len(workers))
	for _, w := range workers {
		if w.CurrentPeriodID == "" {
			pending = append(pending, w)
		}
	}
	return &RolloverResult{Advanced: advanced, RunningDate: c.RunningDate, Pending: pending}, nil
}
