package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/patelfin/lendbook/pkg/models"
)

// Recalculate rebuilds every customer's and every loan's derived fields from
// the full snapshot as of the given moment. It is always a complete recompute,
// never incremental, so the result is independent of the order mutations were
// applied in. Records referencing an unknown customer simply never match a
// filter and contribute nothing.
func Recalculate(customers []*models.Customer, loans []*models.Loan, repayments []*models.Repayment, asOf time.Time) {
	for _, c := range customers {
		recalculateCustomer(c, loans, repayments, asOf)
	}
	for _, l := range loans {
		recalculateLoan(l, repayments, asOf)
	}
}

func recalculateCustomer(c *models.Customer, loans []*models.Loan, repayments []*models.Repayment, asOf time.Time) {
	totalLoanAmount := decimal.Zero
	totalInterest := decimal.Zero
	for _, l := range loans {
		if l.CustomerID != c.ID {
			continue
		}
		totalLoanAmount = totalLoanAmount.Add(l.Amount)
		// Completed loans never re-accrue.
		if l.Status != models.LoanStatusCompleted {
			totalInterest = totalInterest.Add(Accrue(l.Amount, l.InterestRate, l.StartDate, asOf))
		}
	}

	paid := decimal.Zero
	discount := decimal.Zero
	for _, r := range repayments {
		if r.CustomerID != c.ID {
			continue
		}
		paid = paid.Add(r.Amount)
		discount = discount.Add(r.DiscountGiven)
	}

	c.TotalLoanAmount = totalLoanAmount
	c.TotalInterest = totalInterest
	c.PaidAmount = paid
	// Not clamped at zero: over-payment shows as a negative remaining amount.
	c.RemainingAmount = totalLoanAmount.Add(totalInterest).Sub(paid.Add(discount)).Ceil()
}

func recalculateLoan(l *models.Loan, repayments []*models.Repayment, asOf time.Time) {
	// Repayments belong to the customer, not the loan, so every loan of a
	// customer is measured against the customer's whole repayment pool.
	paid := decimal.Zero
	discount := decimal.Zero
	for _, r := range repayments {
		if r.CustomerID != l.CustomerID {
			continue
		}
		paid = paid.Add(r.Amount)
		discount = discount.Add(r.DiscountGiven)
	}

	if l.Status == models.LoanStatusCompleted {
		// Completion is sticky: the loan stays frozen at zero.
		l.TotalInterest = decimal.Zero
		l.PaidAmount = paid
		l.RemainingAmount = decimal.Zero
		return
	}

	interest := Accrue(l.Amount, l.InterestRate, l.StartDate, asOf)
	remaining := l.Amount.Add(interest).Sub(paid.Add(discount))

	l.TotalInterest = interest
	l.PaidAmount = paid
	l.RemainingAmount = remaining.Ceil()
	if remaining.LessThanOrEqual(decimal.Zero) {
		l.Status = models.LoanStatusCompleted
	} else {
		l.Status = models.LoanStatusActive
	}
}
