package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazri/wagebook/calendar"
)

func TestGregorian_Today(t *testing.T) {
	g := &calendar.Gregorian{Now: func() time.Time {
		return time.Date(2026, time.February, 14, 9, 30, 0, 0, time.UTC)
	}}

	d := g.Today()
	assert.Equal(t, 2026, d.Year)
	assert.Equal(t, 1, d.MonthIndex, "month index is 0-based")
	assert.Equal(t, 14, d.DayOfMonth)
	assert.Equal(t, 28, d.DaysInMonth)
	assert.Equal(t, "saturday", d.DayName())
}

func TestGregorian_Resolve(t *testing.T) {
	g := calendar.NewGregorian()

	d, err := g.Resolve(2024, 1, 29)
	require.NoError(t, err)
	assert.Equal(t, 29, d.DaysInMonth, "2024 is a leap year")

	_, err = g.Resolve(2026, 1, 29)
	assert.Error(t, err, "2026 february has 28 days")

	_, err = g.Resolve(2026, 12, 1)
	assert.Error(t, err, "month index out of range")

	_, err = g.Resolve(2026, 3, 31)
	assert.Error(t, err, "april has 30 days")
}

func TestDate_MonthComparisons(t *testing.T) {
	g := calendar.NewGregorian()
	aug, err := g.Resolve(2026, 7, 31)
	require.NoError(t, err)
	sep, err := g.Resolve(2026, 8, 1)
	require.NoError(t, err)
	jan, err := g.Resolve(2027, 0, 1)
	require.NoError(t, err)

	assert.True(t, sep.AfterMonth(aug))
	assert.False(t, aug.AfterMonth(sep))
	assert.True(t, jan.AfterMonth(sep), "year change wins regardless of month index")
	assert.True(t, aug.SameMonth(aug))
	assert.False(t, aug.SameMonth(sep))
}

func TestDate_String(t *testing.T) {
	g := calendar.NewGregorian()
	d, err := g.Resolve(2026, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", d.String())
}
