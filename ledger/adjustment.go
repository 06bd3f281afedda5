/*
adjustment.go - Same-day partial payment against a settlement

PURPOSE:
  A settlement computes what the worker is owed; the cash actually handed
  over may be less, or arrive in installments. Each adjustment records
  another installment and re-splits the settlement into transferred
  (still owed, carried forward) versus taken, so the carried balance
  always reflects what remains owed after payments so far, not the
  original gross amount.

ADJUSTMENT WINDOW:
  Only the most recent settlement is adjustable, and only on the same
  calendar day it was performed. Anything else is ErrAdjustmentWindowClosed.

OVERSHOOT POLICY:
  Once the settlement is fully paid out (wagesOccurred <= amountTaken), a
  further payment is not rejected: it converts into advance-transferred
  and becomes carried advance the worker now owes. This follows the
  newest revision of the reference system.

SEE ALSO:
  - settlement.go: produces the events adjusted here
*/
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/hazri/wagebook/calendar"
)

// AdjustSettlement records givenAmount of cash paid against the
// settlement at settlementDay and replaces the event in place.
func AdjustSettlement(p *Period, settlementDay int, givenAmount decimal.Decimal, today calendar.Date) (Settlement, error) {
	if !givenAmount.IsPositive() {
		return Settlement{}, Validationf("given amount must be positive")
	}
	if p.LastSettlement == nil {
		return Settlement{}, ErrNoSettlement
	}
	if settlementDay != p.LastSettlement.DayOfMonth || p.LastSettlement.PerformedOn != today.DayOfMonth {
		return Settlement{}, ErrAdjustmentWindowClosed
	}

	i := p.settlementIndex(settlementDay)
	if i < 0 {
		return Settlement{}, ErrSettlementNotFound
	}
	s := p.Settlements[i]

	if s.WagesOccurred.Sub(s.AmountTaken).IsPositive() {
		remaining := s.WagesOccurred.Sub(s.AmountTaken.Add(givenAmount))
		switch {
		case remaining.IsPositive():
			s.WagesTransferred = remaining
			p.setCarried(remaining)
		case remaining.IsNegative():
			s.WagesTransferred = decimal.Zero
			s.AdvanceTransferred = remaining.Abs()
			p.setCarried(remaining)
		default:
			s.WagesTransferred = decimal.Zero
			s.AdvanceTransferred = decimal.Zero
			p.setCarried(decimal.Zero)
		}
	} else {
		// Already fully paid: the extra cash is a fresh advance.
		s.AdvanceTransferred = s.AdvanceTransferred.Add(givenAmount)
		s.WagesTransferred = decimal.Zero
		p.setCarried(s.AdvanceTransferred.Neg())
	}
	s.AmountTaken = s.AmountTaken.Add(givenAmount)

	p.Settlements[i] = s
	return s, nil
}
