/*
batch.go - Batched multi-worker submission

PURPOSE:
  Morning roll call: one presence, many workers, each with their own wage
  and optional advance. Units are processed in fixed groups of ten,
  concurrently within a group. Each unit touches a different worker's
  period, so there is no shared mutable state across units; one worker's
  failure is reported in that worker's outcome and never rolls back or
  blocks the others.
*/
package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// batchGroupSize bounds in-flight units per group.
const batchGroupSize = 10

// BatchEntry is one worker's unit in a batch submission.
type BatchEntry struct {
	WorkerID       WorkerID
	WorkerName     string
	PeriodID       PeriodID
	Wage           decimal.Decimal
	AdvanceAmount  decimal.Decimal
	AdvancePurpose string
}

// BatchOutcome is the per-unit result. Done xor Reason.
type BatchOutcome struct {
	WorkerID WorkerID `json:"workerId"`
	Done     bool     `json:"isDone"`
	Reason   string   `json:"reason,omitempty"`
}

// RecordAttendanceBatch records today's attendance for every entry with
// the shared presence value. The returned slice is index-aligned with
// the input.
func (s *Service) RecordAttendanceBatch(ctx context.Context, entries []BatchEntry, presence Presence) ([]BatchOutcome, error) {
	if !presence.Valid() {
		return nil, Validationf("invalid presence %q", presence)
	}
	today := s.Cal.Today()

	return runInGroups(len(entries), func(i int) BatchOutcome {
		e := entries[i]
		_, err := s.RecordAttendance(ctx, e.PeriodID, AttendanceInput{
			DayOfMonth:     today.DayOfMonth,
			Presence:       presence,
			Wage:           e.Wage,
			AdvanceAmount:  e.AdvanceAmount,
			AdvancePurpose: e.AdvancePurpose,
		})
		if err != nil {
			reason := err.Error()
			if e.WorkerName != "" {
				reason = reason + " for " + e.WorkerName
			}
			return BatchOutcome{WorkerID: e.WorkerID, Reason: reason}
		}
		return BatchOutcome{WorkerID: e.WorkerID, Done: true}
	}), nil
}

// runInGroups executes n units in groups of batchGroupSize, concurrently
// within a group, and returns outcomes index-aligned with the input.
func runInGroups(n int, unit func(i int) BatchOutcome) []BatchOutcome {
	outcomes := make([]BatchOutcome, n)
	for start := 0; start < n; start += batchGroupSize {
		end := start + batchGroupSize
		if end > n {
			end = n
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = unit(i)
			}(i)
		}
		wg.Wait()
	}
	return outcomes
}
