package ledger

import "github.com/shopspring/decimal"

// ComputeFinancials derives RealizedProfit and RealizedROI from the other
// fields of item and returns the updated copy.
//
// Profit is only recomputed once the line is sold; otherwise the existing
// value passes through. ROI is a plain ratio (not a percentage) and is not
// applicable unless the line is sold and PaidTotal is non-zero.
//
// Profit is computed in decimal and rounded to cents half away from zero,
// so 10.125 becomes 10.13.
func ComputeFinancials(item LineItem) LineItem {
	out := item
	if !item.Sold() {
		out.RealizedROI = NoROI()
		return out
	}

	profit := decimal.NewFromFloat(item.SoldFor).
		Sub(decimal.NewFromFloat(finiteOrZero(item.MarketplaceFees))).
		Sub(decimal.NewFromFloat(finiteOrZero(item.ShippingCost))).
		Sub(decimal.NewFromFloat(finiteOrZero(item.PaidTotal))).
		Round(2)
	out.RealizedProfit = profit.InexactFloat64()

	paid := finiteOrZero(item.PaidTotal)
	if paid == 0 {
		out.RealizedROI = NoROI()
		return out
	}
	out.RealizedROI = RatioROI(out.RealizedProfit / paid)
	return out
}

// ComputeAll applies ComputeFinancials to every item.
func ComputeAll(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = ComputeFinancials(it)
	}
	return out
}
