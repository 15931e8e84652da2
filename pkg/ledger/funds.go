package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/patelfin/lendbook/pkg/models"
)

// DefaultInitialCapital is the business's starting capital, used when no
// override is configured.
var DefaultInitialCapital = decimal.NewFromInt(15_000_000)

// AvailableFunds derives the single cash-on-hand figure from the entire
// transaction history: starting capital, plus manual fund movements, minus
// everything disbursed as loans, plus cash repaid. Discounts are not cash and
// never add to funds. This is recomputed from scratch on every call rather
// than kept as a running balance, so edits and deletions are always
// reflected.
func AvailableFunds(initialCapital decimal.Decimal, fundTransactions []*models.FundTransaction, loans []*models.Loan, repayments []*models.Repayment) decimal.Decimal {
	funds := initialCapital

	for _, t := range fundTransactions {
		if t.Type == models.FundTransactionAdd {
			funds = funds.Add(t.Amount)
		} else {
			funds = funds.Sub(t.Amount)
		}
	}

	for _, l := range loans {
		funds = funds.Sub(l.Amount)
	}

	for _, r := range repayments {
		funds = funds.Add(r.Amount)
	}

	return funds
}
