package ledger

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Summary holds the dashboard metrics of a set of lines.
type Summary struct {
	Currency    string         `json:"currency" yaml:"currency"`
	Lines       int            `json:"lines" yaml:"lines"`
	SoldLines   int            `json:"soldLines" yaml:"soldLines"`
	Paid        float64        `json:"paid" yaml:"paid"`
	Sold        float64        `json:"sold" yaml:"sold"`
	Realized    float64        `json:"realized" yaml:"realized"`
	Fees        float64        `json:"fees" yaml:"fees"`
	Shipping    float64        `json:"shipping" yaml:"shipping"`
	ROI         float64        `json:"roi" yaml:"roi"`
	SellThrough float64        `json:"sellThrough" yaml:"sellThrough"`
	AvgTicket   float64        `json:"avgTicket" yaml:"avgTicket"`
	Display     SummaryDisplay `json:"display" yaml:"display"`
}

// SummaryDisplay holds the metrics formatted for people.
type SummaryDisplay struct {
	Paid        string `json:"paid" yaml:"paid"`
	Sold        string `json:"sold" yaml:"sold"`
	Realized    string `json:"realized" yaml:"realized"`
	Fees        string `json:"fees" yaml:"fees"`
	Shipping    string `json:"shipping" yaml:"shipping"`
	ROI         string `json:"roi" yaml:"roi"`
	SellThrough string `json:"sellThrough" yaml:"sellThrough"`
	AvgTicket   string `json:"avgTicket" yaml:"avgTicket"`
}

// Summarize totals items. Realized profit sums every line, including the
// carried-over profit of unsold ones. Ratios are 0 when their denominator
// is 0.
func Summarize(items []LineItem, currency string) Summary {
	if currency == "" {
		currency = DefaultCurrency
	}

	var paid, sold, realized, fees, shipping decimal.Decimal
	soldLines := 0
	for _, it := range items {
		paid = paid.Add(dec(it.PaidTotal))
		sold = sold.Add(dec(it.SoldFor))
		realized = realized.Add(dec(it.RealizedProfit))
		fees = fees.Add(dec(it.MarketplaceFees))
		shipping = shipping.Add(dec(it.ShippingCost))
		if it.Sold() {
			soldLines++
		}
	}

	s := Summary{
		Currency:  currency,
		Lines:     len(items),
		SoldLines: soldLines,
		Paid:      paid.InexactFloat64(),
		Sold:      sold.InexactFloat64(),
		Realized:  realized.InexactFloat64(),
		Fees:      fees.InexactFloat64(),
		Shipping:  shipping.InexactFloat64(),
	}
	if !paid.IsZero() {
		s.ROI = realized.Div(paid).InexactFloat64()
	}
	if len(items) > 0 {
		s.SellThrough = float64(soldLines) / float64(len(items))
	}
	var avg decimal.Decimal
	if soldLines > 0 {
		avg = sold.Div(decimal.NewFromInt(int64(soldLines)))
		s.AvgTicket = avg.InexactFloat64()
	}

	s.Display = SummaryDisplay{
		Paid:        formatMoney(paid, currency),
		Sold:        formatMoney(sold, currency),
		Realized:    formatMoney(realized, currency),
		Fees:        formatMoney(fees, currency),
		Shipping:    formatMoney(shipping, currency),
		AvgTicket:   formatMoney(avg, currency),
		ROI:         formatPercent(s.ROI),
		SellThrough: formatPercent(s.SellThrough),
	}
	return s
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(finiteOrZero(v))
}

// formatMoney renders amount with the symbol and grouping of currency.
func formatMoney(amount decimal.Decimal, currency string) string {
	// money.New never returns a nil currency, unknown codes included
	cur := money.New(0, currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
