// Package store provides an in-memory ledger.Store for tests and dev.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hazri/wagebook/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds everything behind one mutex, keeping each call atomic;
// the service's per-period lock serializes whole read-modify-write
// sequences. Documents are copied on the way in and out so callers
// never alias stored state.
type Memory struct {
	mu          sync.RWMutex
	periods     map[ledger.PeriodID]*ledger.Period
	workers     map[ledger.WorkerID]*ledger.Worker
	contractors map[ledger.ContractorID]*ledger.Contractor
}

func NewMemory() *Memory {
	return &Memory{
		periods:     make(map[ledger.PeriodID]*ledger.Period),
		workers:     make(map[ledger.WorkerID]*ledger.Worker),
		contractors: make(map[ledger.ContractorID]*ledger.Contractor),
	}
}

// -----------------------------------------------------------------------------
// PeriodStore
// -----------------------------------------------------------------------------

func (m *Memory) SavePeriod(_ context.Context, p *ledger.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[p.ID] = clonePeriod(p)
	return nil
}

func (m *Memory) Period(_ context.Context, id ledger.PeriodID) (*ledger.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.periods[id]
	if !ok {
		return nil, ledger.ErrPeriodNotFound
	}
	return clonePeriod(p), nil
}

func (m *Memory) PeriodByMonth(_ context.Context, workerID ledger.WorkerID, year, monthIndex int) (*ledger.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.periods {
		if p.WorkerID == workerID && p.Year == year && p.MonthIndex == monthIndex {
			return clonePeriod(p), nil
		}
	}
	return nil, ledger.ErrPeriodNotFound
}

func (m *Memory) PeriodMonths(_ context.Context, workerID ledger.WorkerID, year int) ([]ledger.PeriodMonth, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var months []ledger.PeriodMonth
	for _, p := range m.periods {
		if p.WorkerID == workerID && p.Year == year {
			months = append(months, ledger.PeriodMonth{
				ID:          p.ID,
				MonthIndex:  p.MonthIndex,
				DaysInMonth: p.DaysInMonth,
			})
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].MonthIndex > months[j].MonthIndex })
	return months, nil
}

func (m *Memory) DeletePeriods(_ context.Context, workerID ledger.WorkerID, ids []ledger.PeriodID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if p, ok := m.periods[id]; ok && p.WorkerID == workerID {
			delete(m.periods, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *Memory) DeleteWorkerPeriods(_ context.Context, workerID ledger.WorkerID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for id, p := range m.periods {
		if p.WorkerID == workerID {
			delete(m.periods, id)
			deleted++
		}
	}
	return deleted, nil
}

// -----------------------------------------------------------------------------
// WorkerStore
// -----------------------------------------------------------------------------

func (m *Memory) SaveWorker(_ context.Context, w *ledger.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.workers[w.ID] = &cp
	return nil
}

func (m *Memory) Worker(_ context.Context, id ledger.WorkerID) (*ledger.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, ledger.ErrWorkerNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *Memory) Workers(_ context.Context, contractorID ledger.ContractorID, active bool) ([]*ledger.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*ledger.Worker
	for _, w := range m.workers {
		if w.ContractorID == contractorID && w.Active == active {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteWorker(_ context.Context, id ledger.WorkerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[id]; !ok {
		return ledger.ErrWorkerNotFound
	}
	delete(m.workers, id)
	return nil
}

// -----------------------------------------------------------------------------
// ContractorStore
// -----------------------------------------------------------------------------

func (m *Memory) SaveContractor(_ context.Context, c *ledger.Contractor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.contractors {
		if existing.Email == c.Email && existing.ID != c.ID {
			return ledger.ErrEmailTaken
		}
	}
	cp := *c
	m.contractors[c.ID] = &cp
	return nil
}

func (m *Memory) Contractor(_ context.Context, id ledger.ContractorID) (*ledger.Contractor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contractors[id]
	if !ok {
		return nil, ledger.ErrContractorNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) ContractorByEmail(_ context.Context, email string) (*ledger.Contractor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, c := range m.contractors {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ledger.ErrContractorNotFound
}

// -----------------------------------------------------------------------------

func clonePeriod(p *ledger.Period) *ledger.Period {
	cp := *p
	cp.Entries = make([]ledger.DailyEntry, len(p.Entries))
	for i, e := range p.Entries {
		cp.Entries[i] = e
		if e.Advance != nil {
			adv := *e.Advance
			cp.Entries[i].Advance = &adv
		}
	}
	cp.Settlements = append([]ledger.Settlement(nil), p.Settlements...)
	if p.LastSettlement != nil {
		stamp := *p.LastSettlement
		cp.LastSettlement = &stamp
	}
	return &cp
}

var _ ledger.Store = (*Memory)(nil)
