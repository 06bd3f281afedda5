package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazri/wagebook/calendar"
	"github.com/hazri/wagebook/ledger"
)

// settledPeriod builds a period settled today with the given wages owed.
func settledPeriod(t *testing.T, wages int64, today calendar.Date) *ledger.Period {
	t.Helper()
	p := augPeriod()
	addDay(t, p, 1, wages, 0, today)
	_, err := ledger.Settle(p, today.DayOfMonth, today)
	require.NoError(t, err)
	return p
}

// =============================================================================
// INSTALLMENT TESTS
// =============================================================================

func TestAdjustSettlement_PartialPayment(t *testing.T) {
	// GIVEN: 1000 owed after settlement
	today := aug(t, 10)
	p := settledPeriod(t, 1000, today)

	// WHEN: 400 is handed over
	s, err := ledger.AdjustSettlement(p, 10, dec(400), today)
	require.NoError(t, err)

	// THEN: 600 remains owed and carried
	assert.True(t, s.AmountTaken.Equal(dec(400)))
	assert.True(t, s.WagesTransferred.Equal(dec(600)))
	assert.True(t, s.WagesOccurred.Equal(dec(1000)), "occurred total never changes")
	assert.True(t, p.CarriedWages.Equal(dec(600)))
	requireCarriedExclusive(t, p)
}

func TestAdjustSettlement_InstallmentsToExactZero(t *testing.T) {
	// GIVEN: 1000 owed, paid as 400 then 600
	today := aug(t, 10)
	p := settledPeriod(t, 1000, today)

	_, err := ledger.AdjustSettlement(p, 10, dec(400), today)
	require.NoError(t, err)
	s, err := ledger.AdjustSettlement(p, 10, dec(600), today)
	require.NoError(t, err)

	// THEN: fully paid, nothing carried either way
	assert.True(t, s.AmountTaken.Equal(dec(1000)))
	assert.True(t, s.WagesTransferred.IsZero())
	assert.True(t, s.AdvanceTransferred.IsZero())
	assert.True(t, p.CarriedWages.IsZero())
	assert.True(t, p.CarriedAdvance.IsZero())
}

func TestAdjustSettlement_OvershootBecomesAdvance(t *testing.T) {
	// GIVEN: 1000 owed
	today := aug(t, 10)
	p := settledPeriod(t, 1000, today)

	// WHEN: 1300 is handed over in one go
	s, err := ledger.AdjustSettlement(p, 10, dec(1300), today)
	require.NoError(t, err)

	// THEN: the extra 300 flips into an advance the worker owes
	assert.True(t, s.AmountTaken.Equal(dec(1300)))
	assert.True(t, s.WagesTransferred.IsZero())
	assert.True(t, s.AdvanceTransferred.Equal(dec(300)))
	assert.True(t, p.CarriedAdvance.Equal(dec(300)))
	assert.True(t, p.CarriedWages.IsZero())
	requireCarriedExclusive(t, p)
}

func TestAdjustSettlement_PaymentAfterFullyPaidAddsToAdvance(t *testing.T) {
	// GIVEN: a settlement already paid out in full
	today := aug(t, 10)
	p := settledPeriod(t, 500, today)
	_, err := ledger.AdjustSettlement(p, 10, dec(500), today)
	require.NoError(t, err)

	// WHEN: more cash is handed over anyway
	s, err := ledger.AdjustSettlement(p, 10, dec(200), today)
	require.NoError(t, err)

	// THEN: it accumulates as advance
	assert.True(t, s.AdvanceTransferred.Equal(dec(200)))
	assert.True(t, s.AmountTaken.Equal(dec(700)))
	assert.True(t, p.CarriedAdvance.Equal(dec(200)))
}

// =============================================================================
// ADJUSTMENT WINDOW TESTS
// =============================================================================

func TestAdjustSettlement_ClosedNextDay(t *testing.T) {
	// GIVEN: a settlement performed on the 10th
	p := settledPeriod(t, 1000, aug(t, 10))

	// WHEN: an installment arrives on the 11th
	_, err := ledger.AdjustSettlement(p, 10, dec(400), aug(t, 11))

	// THEN: the window is closed
	assert.ErrorIs(t, err, ledger.ErrAdjustmentWindowClosed)
}

func TestAdjustSettlement_OnlyNewestSettlement(t *testing.T) {
	// GIVEN: two settlements, both performed today
	today := aug(t, 20)
	p := augPeriod()
	addDay(t, p, 5, 500, 0, today)
	_, err := ledger.Settle(p, 10, today)
	require.NoError(t, err)
	addDay(t, p, 15, 500, 0, today)
	_, err = ledger.Settle(p, 20, today)
	require.NoError(t, err)

	// WHEN: adjusting the older one
	_, err = ledger.AdjustSettlement(p, 10, dec(100), today)

	// THEN: only the newest is adjustable
	assert.ErrorIs(t, err, ledger.ErrAdjustmentWindowClosed)

	_, err = ledger.AdjustSettlement(p, 20, dec(100), today)
	assert.NoError(t, err)
}

func TestAdjustSettlement_NoSettlementYet(t *testing.T) {
	p := augPeriod()
	_, err := ledger.AdjustSettlement(p, 10, dec(100), aug(t, 10))
	assert.ErrorIs(t, err, ledger.ErrNoSettlement)
}

func TestAdjustSettlement_RejectsNonPositiveAmount(t *testing.T) {
	today := aug(t, 10)
	p := settledPeriod(t, 1000, today)
	_, err := ledger.AdjustSettlement(p, 10, dec(0), today)
	assert.Equal(t, ledger.KindValidation, ledger.KindOf(err))
}
