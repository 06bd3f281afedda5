package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazri/wagebook/ledger"
)

// =============================================================================
// ENTRY CREATION TESTS
// =============================================================================

func TestAddEntry_RecordsDayWithAdvance(t *testing.T) {
	p := augPeriod()
	today := aug(t, 10)

	entry, err := ledger.AddEntry(p, ledger.EntryInput{
		Date:          aug(t, 10),
		Presence:      ledger.PresenceHalf,
		Wage:          dec(250),
		AdvanceAmount: dec(100),
	}, today)
	require.NoError(t, err)

	assert.Equal(t, 10, entry.DayOfMonth)
	assert.Equal(t, ledger.PresenceHalf, entry.Presence)
	assert.Equal(t, aug(t, 10).DayName(), entry.Day)
	require.NotNil(t, entry.Advance)
	assert.True(t, entry.Advance.Amount.Equal(dec(100)))
	// No purpose given: the default is recorded.
	assert.Equal(t, ledger.DefaultAdvancePurpose, entry.Advance.Purpose)

	assert.True(t, p.AccruedWages.Equal(dec(250)))
	assert.True(t, p.AccruedAdvance.Equal(dec(100)))
}

func TestAddEntry_BackfilledDayKeepsItsOwnWeekday(t *testing.T) {
	// GIVEN: today is the 10th, the entry is for the 3rd
	p := augPeriod()
	entry, err := ledger.AddEntry(p, ledger.EntryInput{
		Date:     aug(t, 3),
		Presence: ledger.PresencePresent,
		Wage:     dec(500),
	}, aug(t, 10))
	require.NoError(t, err)

	// THEN: the weekday name belongs to the 3rd, not to today
	assert.Equal(t, aug(t, 3).DayName(), entry.Day)
}

func TestAddEntry_DuplicateDayRejected(t *testing.T) {
	p := augPeriod()
	today := aug(t, 10)
	addDay(t, p, 10, 500, 0, today)

	// A second submission for the same day never overwrites.
	_, err := ledger.AddEntry(p, ledger.EntryInput{
		Date:     aug(t, 10),
		Presence: ledger.PresenceAbsent,
		Wage:     dec(0),
	}, today)
	assert.ErrorIs(t, err, ledger.ErrEntryExists)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, ledger.PresencePresent, p.Entries[0].Presence)
}

func TestAddEntry_Validation(t *testing.T) {
	p := augPeriod()
	today := aug(t, 10)

	tests := []struct {
		name string
		in   ledger.EntryInput
		want error
	}{
		{"future day", ledger.EntryInput{Date: aug(t, 11), Presence: ledger.PresencePresent, Wage: dec(500)}, ledger.ErrFutureDay},
		{"invalid presence", ledger.EntryInput{Date: aug(t, 9), Presence: "full", Wage: dec(500)}, nil},
		{"negative wage", ledger.EntryInput{Date: aug(t, 9), Presence: ledger.PresencePresent, Wage: dec(-1)}, nil},
		{"negative advance", ledger.EntryInput{Date: aug(t, 9), Presence: ledger.PresencePresent, Wage: dec(500), AdvanceAmount: dec(-1)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.AddEntry(p, tt.in, today)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.Equal(t, ledger.KindValidation, ledger.KindOf(err))
			}
		})
	}
	assert.Empty(t, p.Entries)
}

func TestAddEntry_SettledDayRejected(t *testing.T) {
	p := augPeriod()
	today := aug(t, 15)
	addDay(t, p, 5, 500, 0, today)
	_, err := ledger.Settle(p, 10, today)
	require.NoError(t, err)

	_, err = ledger.AddEntry(p, ledger.EntryInput{
		Date:     aug(t, 8),
		Presence: ledger.PresencePresent,
		Wage:     dec(500),
	}, today)
	assert.ErrorIs(t, err, ledger.ErrSettledDay)
	assert.Equal(t, ledger.KindConflict, ledger.KindOf(err))
}

// =============================================================================
// ENTRY AMENDMENT TESTS
// =============================================================================

func TestUpdateEntry_AdjustsTotalsByDelta(t *testing.T) {
	// GIVEN: two recorded days
	p := augPeriod()
	today := aug(t, 10)
	addDay(t, p, 3, 500, 200, today)
	addDay(t, p, 4, 500, 0, today)
	require.True(t, p.AccruedWages.Equal(dec(1000)))

	// WHEN: day 3 is amended to 750 wage and 50 advance
	wage, adv := dec(750), dec(50)
	presence := ledger.PresenceOneAndHalf
	entry, err := ledger.UpdateEntry(p, 3, ledger.EntryUpdate{
		Presence:      &presence,
		Wage:          &wage,
		AdvanceAmount: &adv,
	}, today)
	require.NoError(t, err)

	// THEN: totals moved by the delta, not reset
	assert.True(t, p.AccruedWages.Equal(dec(1250)))
	assert.True(t, p.AccruedAdvance.Equal(dec(50)))
	assert.Equal(t, ledger.PresenceOneAndHalf, entry.Presence)
}

func TestUpdateEntry_ZeroAdvanceRemovesIt(t *testing.T) {
	p := augPeriod()
	today := aug(t, 10)
	addDay(t, p, 3, 500, 200, today)

	zero := dec(0)
	entry, err := ledger.UpdateEntry(p, 3, ledger.EntryUpdate{AdvanceAmount: &zero}, today)
	require.NoError(t, err)

	assert.Nil(t, entry.Advance)
	assert.True(t, p.AccruedAdvance.IsZero())
}

func TestUpdateEntry_OnlyInCurrentMonth(t *testing.T) {
	// GIVEN: the period is August, today is September
	p := augPeriod()
	addDay(t, p, 3, 500, 0, aug(t, 10))
	today, err := testCal.Resolve(2026, 8, 1)
	require.NoError(t, err)

	wage := dec(600)
	_, err = ledger.UpdateEntry(p, 3, ledger.EntryUpdate{Wage: &wage}, today)
	assert.ErrorIs(t, err, ledger.ErrWrongMonth)
}

func TestUpdateEntry_SettledDayImmutable(t *testing.T) {
	p := augPeriod()
	today := aug(t, 15)
	addDay(t, p, 5, 500, 0, today)
	_, err := ledger.Settle(p, 10, today)
	require.NoError(t, err)

	wage := dec(600)
	_, err = ledger.UpdateEntry(p, 5, ledger.EntryUpdate{Wage: &wage}, today)
	assert.ErrorIs(t, err, ledger.ErrSettledDay)
	assert.Equal(t, ledger.KindConflict, ledger.KindOf(err))
}

func TestUpdateEntry_MissingDay(t *testing.T) {
	p := augPeriod()
	wage := dec(600)
	_, err := ledger.UpdateEntry(p, 3, ledger.EntryUpdate{Wage: &wage}, aug(t, 10))
	assert.ErrorIs(t, err, ledger.ErrEntryNotFound)
}

// =============================================================================
// ENTRY DELETION TESTS
// =============================================================================

func TestDeleteEntry_BacksOutTotals(t *testing.T) {
	p := augPeriod()
	today := aug(t, 10)
	addDay(t, p, 3, 500, 200, today)
	addDay(t, p, 4, 600, 0, today)

	require.NoError(t, ledger.DeleteEntry(p, 3, today))

	assert.Len(t, p.Entries, 1)
	assert.True(t, p.AccruedWages.Equal(dec(600)))
	assert.True(t, p.AccruedAdvance.IsZero())

	// The freed day can be recorded again.
	addDay(t, p, 3, 450, 0, today)
	assert.True(t, p.AccruedWages.Equal(dec(1050)))
}

func TestDeleteEntry_SettledDayImmutable(t *testing.T) {
	p := augPeriod()
	today := aug(t, 15)
	addDay(t, p, 5, 500, 0, today)
	_, err := ledger.Settle(p, 10, today)
	require.NoError(t, err)

	err = ledger.DeleteEntry(p, 5, today)
	assert.ErrorIs(t, err, ledger.ErrSettledDay)
	assert.Equal(t, ledger.KindConflict, ledger.KindOf(err))
}
