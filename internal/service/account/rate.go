package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sidbank/ledger-core/internal/errs"
)

// parseRate parses an interest rate such as "0.055". Rates are plain decimal
// numbers, not money amounts, so they don't round to minor units.
func parseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed interest rate %q", errs.ErrInvalidAccount, s)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: interest rate must be >= 0", errs.ErrInvalidAccount)
	}
	return rate, nil
}
