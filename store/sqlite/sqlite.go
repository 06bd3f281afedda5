/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Persists contractors, workers, and ledger periods. The period payload
  (entries, settlements, balances) is stored as one JSON document per
  row, matching the persisted shape the API exposes; year and month are
  lifted into columns for month lookups.

CONCURRENCY:
  Uses sync.RWMutex around the connection so each store call is atomic;
  the ledger service serializes whole read-modify-write sequences with
  its per-period lock. SQLite is opened with WAL for better read
  concurrency and crash recovery.

KEY TABLES:
  contractors:  tenant accounts with the rollover running date
  workers:      identity, wage rate, current/previous period pointers
  periods:      one JSON document per worker-month, unique on
                (worker_id, year, month_index)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - ledger/store.go: interface definitions
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/hazri/wagebook/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contractors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		company_name TEXT NOT NULL,
		running_year INTEGER NOT NULL,
		running_month_index INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		contractor_id TEXT NOT NULL REFERENCES contractors(id),
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		contact_number TEXT,
		address TEXT,
		daily_wage TEXT NOT NULL,
		joining_year INTEGER NOT NULL,
		joining_month_index INTEGER NOT NULL,
		joining_day INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		current_period_id TEXT,
		previous_period_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_workers_contractor
		ON workers(contractor_id, is_active);

	CREATE TABLE IF NOT EXISTS periods (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		year INTEGER NOT NULL,
		month_index INTEGER NOT NULL,
		doc TEXT NOT NULL
	);

	-- One period per worker per calendar month
	CREATE UNIQUE INDEX IF NOT EXISTS idx_periods_worker_month
		ON periods(worker_id, year, month_index);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PERIOD STORE
// =============================================================================

func (s *Store) SavePeriod(ctx context.Context, p *ledger.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.Marshal(p)
	if err != nil {
		return ledger.Internalf(err, "marshal period %s", p.ID)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO periods (id, worker_id, year, month_index, doc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`,
		string(p.ID), string(p.WorkerID), p.Year, p.MonthIndex, string(doc))
	if err != nil {
		return ledger.Internalf(err, "save period %s", p.ID)
	}
	return nil
}

func (s *Store) Period(ctx context.Context, id ledger.PeriodID) (*ledger.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT doc FROM periods WHERE id = ?`, string(id))
	return scanPeriod(row)
}

func (s *Store) PeriodByMonth(ctx context.Context, workerID ledger.WorkerID, year, monthIndex int) (*ledger.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT doc FROM periods
		WHERE worker_id = ? AND year = ? AND month_index = ?`,
		string(workerID), year, monthIndex)
	return scanPeriod(row)
}

func scanPeriod(row *sql.Row) (*ledger.Period, error) {
	var doc string
	if err := row.Scan(&doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrPeriodNotFound
		}
		return nil, ledger.Internalf(err, "load period")
	}
	var p ledger.Period
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, ledger.Internalf(err, "unmarshal period")
	}
	return &p, nil
}

func (s *Store) PeriodMonths(ctx context.Context, workerID ledger.WorkerID, year int) ([]ledger.PeriodMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month_index, doc FROM periods
		WHERE worker_id = ? AND year = ?
		ORDER BY month_index DESC`,
		string(workerID), year)
	if err != nil {
		return nil, ledger.Internalf(err, "list period months")
	}
	defer rows.Close()

	var months []ledger.PeriodMonth
	for rows.Next() {
		var (
			id, doc    string
			monthIndex int
		)
		if err := rows.Scan(&id, &monthIndex, &doc); err != nil {
			return nil, ledger.Internalf(err, "scan period month")
		}
		var p ledger.Period
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, ledger.Internalf(err, "unmarshal period")
		}
		months = append(months, ledger.PeriodMonth{
			ID:          ledger.PeriodID(id),
			MonthIndex:  monthIndex,
			DaysInMonth: p.DaysInMonth,
		})
	}
	return months, rows.Err()
}

func (s *Store) DeletePeriods(ctx context.Context, workerID ledger.WorkerID, ids []ledger.PeriodID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, string(id))
	}
	args = append(args, string(workerID))

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM periods WHERE id IN (`+placeholders+`) AND worker_id = ?`, args...)
	if err != nil {
		return 0, ledger.Internalf(err, "delete periods")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) DeleteWorkerPeriods(ctx context.Context, workerID ledger.WorkerID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM periods WHERE worker_id = ?`, string(workerID))
	if err != nil {
		return 0, ledger.Internalf(err, "delete worker periods")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// =============================================================================
// WORKER STORE
// =============================================================================

func (s *Store) SaveWorker(ctx context.Context, w *ledger.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workers (
			id, contractor_id, name, role, contact_number, address, daily_wage,
			joining_year, joining_month_index, joining_day,
			is_active, current_period_id, previous_period_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			contact_number = excluded.contact_number,
			address = excluded.address,
			daily_wage = excluded.daily_wage,
			is_active = excluded.is_active,
			current_period_id = excluded.current_period_id,
			previous_period_id = excluded.previous_period_id`,
		string(w.ID), string(w.ContractorID), w.Name, string(w.Role),
		w.ContactNumber, w.Address, w.DailyWage.String(),
		w.Joining.Year, w.Joining.MonthIndex, w.Joining.DayOfMonth,
		w.Active, string(w.CurrentPeriodID), string(w.PreviousPeriodID))
	if err != nil {
		return ledger.Internalf(err, "save worker %s", w.ID)
	}
	return nil
}

const workerColumns = `
	id, contractor_id, name, role, contact_number, address, daily_wage,
	joining_year, joining_month_index, joining_day,
	is_active, current_period_id, previous_period_id`

func (s *Store) Worker(ctx context.Context, id ledger.WorkerID) (*ledger.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE id = ?`, string(id))
	w, err := scanWorker(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrWorkerNotFound
	}
	if err != nil {
		return nil, ledger.Internalf(err, "load worker %s", id)
	}
	return w, nil
}

func (s *Store) Workers(ctx context.Context, contractorID ledger.ContractorID, active bool) ([]*ledger.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workerColumns+` FROM workers
		 WHERE contractor_id = ? AND is_active = ? ORDER BY name`,
		string(contractorID), active)
	if err != nil {
		return nil, ledger.Internalf(err, "list workers")
	}
	defer rows.Close()

	var workers []*ledger.Worker
	for rows.Next() {
		w, err := scanWorker(rows.Scan)
		if err != nil {
			return nil, ledger.Internalf(err, "scan worker")
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (s *Store) DeleteWorker(ctx context.Context, id ledger.WorkerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, string(id))
	if err != nil {
		return ledger.Internalf(err, "delete worker %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrWorkerNotFound
	}
	return nil
}

func scanWorker(scan func(dest ...any) error) (*ledger.Worker, error) {
	var (
		w                            ledger.Worker
		id, contractorID, role, wage string
		contact, address             sql.NullString
		currentID, previousID        sql.NullString
	)
	err := scan(&id, &contractorID, &w.Name, &role, &contact, &address, &wage,
		&w.Joining.Year, &w.Joining.MonthIndex, &w.Joining.DayOfMonth,
		&w.Active, &currentID, &previousID)
	if err != nil {
		return nil, err
	}
	w.ID = ledger.WorkerID(id)
	w.ContractorID = ledger.ContractorID(contractorID)
	w.Role = ledger.Role(role)
	w.ContactNumber = contact.String
	w.Address = address.String
	w.CurrentPeriodID = ledger.PeriodID(currentID.String)
	w.PreviousPeriodID = ledger.PeriodID(previousID.String)
	w.DailyWage, err = decimal.NewFromString(wage)
	if err != nil {
		return nil, fmt.Errorf("bad daily_wage %q: %w", wage, err)
	}
	return &w, nil
}

// =============================================================================
// CONTRACTOR STORE
// =============================================================================

func (s *Store) SaveContractor(ctx context.Context, c *ledger.Contractor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contractors (
			id, name, email, password_hash, company_name,
			running_year, running_month_index
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			password_hash = excluded.password_hash,
			company_name = excluded.company_name,
			running_year = excluded.running_year,
			running_month_index = excluded.running_month_index`,
		string(c.ID), c.Name, c.Email, c.PasswordHash, c.CompanyName,
		c.RunningDate.Year, c.RunningDate.MonthIndex)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ledger.ErrEmailTaken
		}
		return ledger.Internalf(err, "save contractor %s", c.ID)
	}
	return nil
}

func (s *Store) Contractor(ctx context.Context, id ledger.ContractorID) (*ledger.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, company_name, running_year, running_month_index
		FROM contractors WHERE id = ?`, string(id))
	return scanContractor(row)
}

func (s *Store) ContractorByEmail(ctx context.Context, email string) (*ledger.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, company_name, running_year, running_month_index
		FROM contractors WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
	return scanContractor(row)
}

func scanContractor(row *sql.Row) (*ledger.Contractor, error) {
	var (
		c  ledger.Contractor
		id string
	)
	err := row.Scan(&id, &c.Name, &c.Email, &c.PasswordHash, &c.CompanyName,
		&c.RunningDate.Year, &c.RunningDate.MonthIndex)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrContractorNotFound
	}
	if err != nil {
		return nil, ledger.Internalf(err, "load contractor")
	}
	c.ID = ledger.ContractorID(id)
	return &c, nil
}

var _ ledger.Store = (*Store)(nil)
