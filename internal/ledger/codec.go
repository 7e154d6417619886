package ledger

import "strings"

// Column headers of the tabular file, in file order.
const (
	ColInvoice         = "Invoice"
	ColPurchaseDate    = "Purchase_Date"
	ColItem            = "Item"
	ColHammer          = "Hammer"
	ColBuyerPremium    = "Buyer_Premium_15%"
	ColLotFee          = "Lot_Fee"
	ColTax             = "Tax"
	ColPaidTotal       = "Paid_Total"
	ColMarketplace     = "Marketplace"
	ColSoldFor         = "Sold For"
	ColMarketplaceFees = "Marketplace_Fees"
	ColShippingCost    = "Shipping_Cost"
	ColRealizedProfit  = "Realized_Profit"
	ColRealizedROI     = "Realized_ROI"
)

// Headers is the header row of the tabular file.
var Headers = []string{
	ColInvoice,
	ColPurchaseDate,
	ColItem,
	ColHammer,
	ColBuyerPremium,
	ColLotFee,
	ColTax,
	ColPaidTotal,
	ColMarketplace,
	ColSoldFor,
	ColMarketplaceFees,
	ColShippingCost,
	ColRealizedProfit,
	ColRealizedROI,
}

// Record is one raw table row keyed by column header. Missing keys are
// absent cells.
type Record map[string]string

// Decode maps a raw row onto a fully populated LineItem. It never fails:
// absent text cells are "", numeric cells go through NormalizeNumber and the
// ROI cell is carried verbatim until the next ComputeFinancials.
func Decode(rec Record) LineItem {
	return LineItem{
		Invoice:         strings.TrimSpace(rec[ColInvoice]),
		PurchaseDate:    rec[ColPurchaseDate],
		Item:            rec[ColItem],
		Hammer:          NormalizeNumber(rec[ColHammer]),
		BuyerPremium:    NormalizeNumber(rec[ColBuyerPremium]),
		LotFee:          NormalizeNumber(rec[ColLotFee]),
		Tax:             NormalizeNumber(rec[ColTax]),
		PaidTotal:       NormalizeNumber(rec[ColPaidTotal]),
		Marketplace:     rec[ColMarketplace],
		SoldFor:         NormalizeNumber(rec[ColSoldFor]),
		MarketplaceFees: NormalizeNumber(rec[ColMarketplaceFees]),
		ShippingCost:    NormalizeNumber(rec[ColShippingCost]),
		RealizedProfit:  NormalizeNumber(rec[ColRealizedProfit]),
		RealizedROI:     RawROI(rec[ColRealizedROI]),
	}
}

// Encode is the inverse of Decode. Every column is present; zero amounts
// are "0" and a not applicable ROI is "".
func Encode(item LineItem) Record {
	return Record{
		ColInvoice:         item.Invoice,
		ColPurchaseDate:    item.PurchaseDate,
		ColItem:            item.Item,
		ColHammer:          formatNumber(item.Hammer),
		ColBuyerPremium:    formatNumber(item.BuyerPremium),
		ColLotFee:          formatNumber(item.LotFee),
		ColTax:             formatNumber(item.Tax),
		ColPaidTotal:       formatNumber(item.PaidTotal),
		ColMarketplace:     item.Marketplace,
		ColSoldFor:         formatNumber(item.SoldFor),
		ColMarketplaceFees: formatNumber(item.MarketplaceFees),
		ColShippingCost:    formatNumber(item.ShippingCost),
		ColRealizedProfit:  formatNumber(item.RealizedProfit),
		ColRealizedROI:     item.RealizedROI.String(),
	}
}

// EncodeRow encodes item as cells in Headers order.
func EncodeRow(item LineItem) []string {
	return rec2row(Encode(item))
}

func rec2row(rec Record) []string {
	row := make([]string, len(Headers))
	for i, h := range Headers {
		row[i] = rec[h]
	}
	return row
}

// IsTotalsRow reports whether rec is the summary footer of a table.
func IsTotalsRow(rec Record) bool {
	return strings.ToLower(strings.TrimSpace(rec[ColItem])) == "totals"
}

// WithoutTotals drops footer rows, keeping the order of the others.
func WithoutTotals(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if IsTotalsRow(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
