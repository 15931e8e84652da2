package ledger

import "github.com/shopspring/decimal"

// AllocateInterest decides how much of a repayment counts toward interest.
// Interest is always satisfied before principal, and a discount counts the
// same as cash for that purpose. The result is capped at the interest still
// outstanding, floored at zero, and rounded up to the next whole unit.
func AllocateInterest(accruedTotal, alreadyCollected, payment, discount decimal.Decimal) decimal.Decimal {
	outstanding := accruedTotal.Sub(alreadyCollected)
	effective := payment.Add(discount)

	portion := decimal.Min(effective, outstanding)
	if portion.IsNegative() {
		portion = decimal.Zero
	}
	return portion.Ceil()
}
