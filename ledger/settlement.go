/*
settlement.go - Window settlement and carry-forward

PURPOSE:
  Settlement closes out the span (lastBoundary, settlementDay] into a net
  amount. Wages and advances recorded in the window are summed from the
  entries themselves, combined with the carried balance from earlier
  settlements, and the signed result becomes the new carried balance:
  positive means the contractor owes the worker (wages case), negative
  means the worker owes the contractor (advance case).

CRITICAL INVARIANTS:
  1. MONOTONIC: the boundary only advances. A settlement at or before the
     current boundary is rejected, so re-settling a day is impossible.
  2. NO FUTURE: when the period is the current calendar month, the
     boundary cannot pass today.
  3. EXACTLY-ONE OUTCOME: a settlement carries wagesOccurred > 0 or
     advanceOccurred > 0, never both; both zero means balanced.

SEE ALSO:
  - adjustment.go: same-day partial payment against the newest settlement
  - service.go: SettleFinal is invoked by the month rollover path
*/
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/hazri/wagebook/calendar"
)

// SettlementResult is returned to callers to render a payment summary.
// Prev* are the carried balances before the settlement, Carried* after.
type SettlementResult struct {
	Settlement Settlement `json:"settlement"`

	PrevCarriedWages   decimal.Decimal `json:"prevWages"`
	PrevCarriedAdvance decimal.Decimal `json:"prevAdvance"`
	WindowWages        decimal.Decimal `json:"calculatedWages"`
	WindowAdvance      decimal.Decimal `json:"calculatedAdvance"`
	Net                decimal.Decimal `json:"amount"`

	CarriedWages   decimal.Decimal `json:"carriedWages"`
	CarriedAdvance decimal.Decimal `json:"carriedAdvance"`
	AccruedWages   decimal.Decimal `json:"newCurrentWages"`
	AccruedAdvance decimal.Decimal `json:"newCurrentAdvance"`
}

// Settle closes out the window (lastBoundary, settlementDay].
//
// Preconditions: lastBoundary < settlementDay <= daysInMonth, and when the
// period is the current calendar month, settlementDay <= today.
func Settle(p *Period, settlementDay int, today calendar.Date) (*SettlementResult, error) {
	if settlementDay <= p.LastBoundary() || settlementDay > p.DaysInMonth {
		return nil, ErrInvalidRange
	}
	if p.Year == today.Year && p.MonthIndex == today.MonthIndex && settlementDay > today.DayOfMonth {
		return nil, ErrFutureDay
	}
	return settle(p, settlementDay, today), nil
}

// SettleFinal settles the entire remaining span of the period, used when
// a month is rolled over. Re-running it on a fully settled period is a
// no-op returning the existing final settlement, so repeated rollover
// triggers are harmless.
func SettleFinal(p *Period, today calendar.Date) (*SettlementResult, error) {
	if p.FullySettled() {
		final, ok := p.SettlementAt(p.DaysInMonth)
		if !ok {
			// Boundary says settled but the event is missing: corrupt document.
			return nil, Internalf(nil, "period %s marked settled without a final settlement", p.ID)
		}
		return &SettlementResult{
			Settlement:         final,
			PrevCarriedWages:   p.CarriedWages,
			PrevCarriedAdvance: p.CarriedAdvance,
			CarriedWages:       p.CarriedWages,
			CarriedAdvance:     p.CarriedAdvance,
			AccruedWages:       p.AccruedWages,
			AccruedAdvance:     p.AccruedAdvance,
		}, nil
	}
	return settle(p, p.DaysInMonth, today), nil
}

// settle performs the arithmetic; preconditions are already checked.
func settle(p *Period, settlementDay int, today calendar.Date) *SettlementResult {
	prevWages := p.CarriedWages
	prevAdvance := p.CarriedAdvance
	windowWages, windowAdvance := p.windowTotals(p.LastBoundary(), settlementDay)

	net := p.carriedNet().Add(windowWages).Sub(windowAdvance)

	s := Settlement{DayOfMonth: settlementDay}
	switch {
	case net.IsPositive():
		s.WagesOccurred = net
		s.WagesTransferred = net
	case net.IsNegative():
		s.AdvanceOccurred = net.Abs()
		s.AdvanceTransferred = net.Abs()
	}
	p.setCarried(net)

	p.Settlements = append(p.Settlements, s)
	p.LastSettlement = &SettlementStamp{
		DayOfMonth:  settlementDay,
		PerformedOn: today.DayOfMonth,
		DayName:     today.DayName(),
	}

	// Accrued totals now describe only entries past the new boundary.
	p.AccruedWages = p.AccruedWages.Sub(windowWages)
	p.AccruedAdvance = p.AccruedAdvance.Sub(windowAdvance)

	return &SettlementResult{
		Settlement:         s,
		PrevCarriedWages:   prevWages,
		PrevCarriedAdvance: prevAdvance,
		WindowWages:        windowWages,
		WindowAdvance:      windowAdvance,
		Net:                net,
		CarriedWages:       p.CarriedWages,
		CarriedAdvance:     p.CarriedAdvance,
		AccruedWages:       p.AccruedWages,
		AccruedAdvance:     p.AccruedAdvance,
	}
}
