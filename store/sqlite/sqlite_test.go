package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazri/wagebook/ledger"
	"github.com/hazri/wagebook/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedContractor(t *testing.T, store *sqlite.Store) *ledger.Contractor {
	t.Helper()
	c := &ledger.Contractor{
		ID:           "c1",
		Name:         "Hari",
		Email:        "hari@example.com",
		PasswordHash: "hash",
		CompanyName:  "Hari Constructions",
		RunningDate:  ledger.RunningDate{Year: 2026, MonthIndex: 7},
	}
	require.NoError(t, store.SaveContractor(context.Background(), c))
	return c
}

func seedWorker(t *testing.T, store *sqlite.Store, id ledger.WorkerID) *ledger.Worker {
	t.Helper()
	w := &ledger.Worker{
		ID:           id,
		ContractorID: "c1",
		Name:         "Ram " + string(id),
		Role:         ledger.RoleLabour,
		DailyWage:    decimal.NewFromInt(500),
		Joining:      ledger.JoiningDate{Year: 2026, MonthIndex: 7, DayOfMonth: 1},
		Active:       true,
	}
	require.NoError(t, store.SaveWorker(context.Background(), w))
	return w
}

// =============================================================================
// ROUND-TRIP TESTS
// =============================================================================

func TestStore_ContractorRoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedContractor(t, store)

	c, err := store.Contractor(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "hari@example.com", c.Email)
	assert.Equal(t, 7, c.RunningDate.MonthIndex)

	byEmail, err := store.ContractorByEmail(context.Background(), "  Hari@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	_, err = store.Contractor(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrContractorNotFound)
}

func TestStore_SaveContractorDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	c := seedContractor(t, store)

	// The UNIQUE index surfaces as a conflict, not an internal error.
	dup := &ledger.Contractor{
		ID:           "c2",
		Name:         "Shyam",
		Email:        c.Email,
		PasswordHash: "hash",
		RunningDate:  c.RunningDate,
	}
	err := store.SaveContractor(context.Background(), dup)
	assert.ErrorIs(t, err, ledger.ErrEmailTaken)
	assert.Equal(t, ledger.KindConflict, ledger.KindOf(err))

	// Upserting the existing account is still allowed.
	c.CompanyName = "Hari Builders"
	assert.NoError(t, store.SaveContractor(context.Background(), c))
}

func TestStore_WorkerRoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedContractor(t, store)
	w := seedWorker(t, store, "w1")

	got, err := store.Worker(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Name, got.Name)
	assert.True(t, got.DailyWage.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, got.CurrentPeriodID)

	// Upsert keeps identity, changes fields.
	got.DailyWage = decimal.NewFromInt(600)
	got.CurrentPeriodID = "p1"
	require.NoError(t, store.SaveWorker(context.Background(), got))
	again, err := store.Worker(context.Background(), w.ID)
	require.NoError(t, err)
	assert.True(t, again.DailyWage.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, ledger.PeriodID("p1"), again.CurrentPeriodID)

	_, err = store.Worker(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrWorkerNotFound)
}

func TestStore_WorkersFiltersByTenantAndActive(t *testing.T) {
	store := newTestStore(t)
	seedContractor(t, store)
	seedWorker(t, store, "w1")
	inactive := seedWorker(t, store, "w2")
	inactive.Active = false
	require.NoError(t, store.SaveWorker(context.Background(), inactive))

	active, err := store.Workers(context.Background(), "c1", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ledger.WorkerID("w1"), active[0].ID)

	parked, err := store.Workers(context.Background(), "c1", false)
	require.NoError(t, err)
	require.Len(t, parked, 1)
	assert.Equal(t, ledger.WorkerID("w2"), parked[0].ID)

	other, err := store.Workers(context.Background(), "someone-else", true)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_PeriodDocumentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedContractor(t, store)
	seedWorker(t, store, "w1")

	p := ledger.NewPeriod("p1", "w1", 2026, 7, 31)
	p.Entries = []ledger.DailyEntry{{
		Day:        "monday",
		DayOfMonth: 3,
		Presence:   ledger.PresencePresent,
		Wage:       decimal.NewFromInt(500),
		Advance:    &ledger.Advance{Amount: decimal.NewFromInt(100), Purpose: "General Work"},
	}}
	p.AccruedWages = decimal.NewFromInt(500)
	p.AccruedAdvance = decimal.NewFromInt(100)
	require.NoError(t, store.SavePeriod(context.Background(), p))

	got, err := store.Period(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, p.WorkerID, got.WorkerID)
	require.Len(t, got.Entries, 1)
	assert.True(t, got.Entries[0].Wage.Equal(decimal.NewFromInt(500)))
	require.NotNil(t, got.Entries[0].Advance)
	assert.True(t, got.AccruedAdvance.Equal(decimal.NewFromInt(100)))

	byMonth, err := store.PeriodByMonth(context.Background(), "w1", 2026, 7)
	require.NoError(t, err)
	assert.Equal(t, got.ID, byMonth.ID)

	_, err = store.PeriodByMonth(context.Background(), "w1", 2026, 6)
	assert.ErrorIs(t, err, ledger.ErrPeriodNotFound)
}

func TestStore_PeriodMonthsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	seedContractor(t, store)
	seedWorker(t, store, "w1")
	for _, m := range []int{5, 7, 6} {
		p := ledger.NewPeriod(ledger.PeriodID(ledger.NewID()), "w1", 2026, m, 31)
		require.NoError(t, store.SavePeriod(context.Background(), p))
	}

	months, err := store.PeriodMonths(context.Background(), "w1", 2026)
	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, []int{7, 6, 5}, []int{months[0].MonthIndex, months[1].MonthIndex, months[2].MonthIndex})
}

func TestStore_DeletePeriodsScopedToWorker(t *testing.T) {
	store := newTestStore(t)
	seedContractor(t, store)
	seedWorker(t, store, "w1")
	seedWorker(t, store, "w2")

	p1 := ledger.NewPeriod("p1", "w1", 2026, 6, 31)
	p2 := ledger.NewPeriod("p2", "w2", 2026, 6, 31)
	require.NoError(t, store.SavePeriod(context.Background(), p1))
	require.NoError(t, store.SavePeriod(context.Background(), p2))

	// Asking to delete another worker's period deletes nothing of theirs.
	n, err := store.DeletePeriods(context.Background(), "w1", []ledger.PeriodID{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Period(context.Background(), "p2")
	assert.NoError(t, err)
}

func TestStore_DeleteWorkerPeriods(t *testing.T) {
	store := newTestStore(t)
	seedContractor(t, store)
	seedWorker(t, store, "w1")
	for _, m := range []int{5, 6, 7} {
		p := ledger.NewPeriod(ledger.PeriodID(ledger.NewID()), "w1", 2026, m, 31)
		require.NoError(t, store.SavePeriod(context.Background(), p))
	}

	n, err := store.DeleteWorkerPeriods(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	months, err := store.PeriodMonths(context.Background(), "w1", 2026)
	require.NoError(t, err)
	assert.Empty(t, months)
}
