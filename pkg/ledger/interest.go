package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Interest is simple, accruing per minute against a fixed 365-day year. The
// rate is an annual percentage, hence the extra factor of 100 in the divisor.
var minutesPerRateYear = decimal.NewFromInt(100 * 365 * 24 * 60)

// Accrue returns the interest accrued on principal between start and asOf,
// rounded up to the next whole unit. Elapsed time is taken as an absolute
// difference, so a start date in the future still accrues.
func Accrue(principal, annualRatePercent decimal.Decimal, start, asOf time.Time) decimal.Decimal {
	minutes := asOf.Sub(start).Minutes()
	if minutes < 0 {
		minutes = -minutes
	}
	interest := principal.Mul(annualRatePercent).Mul(decimal.NewFromFloat(minutes)).Div(minutesPerRateYear)
	return interest.Ceil()
}
