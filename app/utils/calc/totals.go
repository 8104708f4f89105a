package calc

import "github.com/shopspring/decimal"

func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SumSubtotals is used to cross-check order totals returned by the backend
// before they are shown on a confirmation screen.
func SumSubtotals(subtotals []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subtotals {
		total = total.Add(s)
	}
	return total
}
