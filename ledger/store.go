/*
store.go - Persistence interfaces consumed by the service layer

PURPOSE:
  The engine is pure; everything stateful goes through these interfaces.
  Implementations: store/sqlite (production), ledger/store (in-memory,
  tests and dev).

CONCURRENCY CONTRACT:
  A Period document requires exclusive read-modify-write access for any
  mutating operation: totals are maintained by accumulation, so
  interleaved writers corrupt them. The Service holds a per-period lock
  across the whole load-mutate-save sequence (Service.lockPeriod);
  implementations only need each call to be individually atomic. Two
  submissions for the same worker+day must leave the second observing
  ErrEntryExists, never a silent overwrite.

LOOKUPS:
  Missing records surface as the ledger sentinel errors
  (ErrPeriodNotFound, ErrWorkerNotFound, ErrContractorNotFound), never as
  (nil, nil).
*/
package ledger

import "context"

// PeriodMonth is the light listing shape for a worker's recorded months.
type PeriodMonth struct {
	ID          PeriodID `json:"id"`
	MonthIndex  int      `json:"monthIndex"`
	DaysInMonth int      `json:"numberOfDaysInMonth"`
}

type PeriodStore interface {
	SavePeriod(ctx context.Context, p *Period) error
	Period(ctx context.Context, id PeriodID) (*Period, error)

	// PeriodByMonth finds a worker's period for one calendar month.
	PeriodByMonth(ctx context.Context, workerID WorkerID, year, monthIndex int) (*Period, error)

	// PeriodMonths lists a worker's recorded months of a year, newest first.
	PeriodMonths(ctx context.Context, workerID WorkerID, year int) ([]PeriodMonth, error)

	// DeletePeriods bulk-deletes a worker's periods. Callers must have
	// excluded the worker's current and previous periods already.
	DeletePeriods(ctx context.Context, workerID WorkerID, ids []PeriodID) (int, error)

	// DeleteWorkerPeriods removes every period of a worker. Only used
	// when the worker itself is being deleted.
	DeleteWorkerPeriods(ctx context.Context, workerID WorkerID) (int, error)
}

type WorkerStore interface {
	SaveWorker(ctx context.Context, w *Worker) error
	Worker(ctx context.Context, id WorkerID) (*Worker, error)
	Workers(ctx context.Context, contractorID ContractorID, active bool) ([]*Worker, error)
	DeleteWorker(ctx context.Context, id WorkerID) error
}

type ContractorStore interface {
	SaveContractor(ctx context.Context, c *Contractor) error
	Contractor(ctx context.Context, id ContractorID) (*Contractor, error)
	ContractorByEmail(ctx context.Context, email string) (*Contractor, error)
}

// Store is the full persistence surface the service needs.
type Store interface {
	PeriodStore
	WorkerStore
	ContractorStore
}
