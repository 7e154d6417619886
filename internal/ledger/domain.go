package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// LineItem represents one purchase/resale transaction of the ledger.
type LineItem struct {
	Invoice         string  `json:"invoice"`
	PurchaseDate    string  `json:"purchaseDate"`
	Item            string  `json:"item"`
	Hammer          float64 `json:"hammer"`
	BuyerPremium    float64 `json:"buyerPremium"`
	LotFee          float64 `json:"lotFee"`
	Tax             float64 `json:"tax"`
	PaidTotal       float64 `json:"paidTotal"`
	Marketplace     string  `json:"marketplace"`
	SoldFor         float64 `json:"soldFor"`
	MarketplaceFees float64 `json:"marketplaceFees"`
	ShippingCost    float64 `json:"shippingCost"`
	RealizedProfit  float64 `json:"realizedProfit"`
	RealizedROI     ROI     `json:"realizedRoi"`
}

// EmptyLineItem returns the blank template used when a line is added by hand.
func EmptyLineItem() LineItem {
	return LineItem{RealizedROI: NoROI()}
}

// Sold reports whether the line has a recorded sale.
func (l LineItem) Sold() bool {
	return isFinite(l.SoldFor) && l.SoldFor > 0
}

// ROI is the realized return on investment of a line. It is either not
// applicable, a ratio, or the verbatim text of a decoded cell that has not
// been recomputed yet.
type ROI struct {
	ratio float64
	valid bool
	raw   string
}

// NoROI is the "not applicable" marker. It is distinct from a zero ratio.
func NoROI() ROI { return ROI{} }

// RatioROI returns a present ratio. Non-finite values are not applicable.
func RatioROI(r float64) ROI {
	if !isFinite(r) {
		return ROI{}
	}
	return ROI{ratio: r, valid: true}
}

// RawROI carries a tabular cell verbatim. Blank text is not applicable.
func RawROI(text string) ROI {
	if strings.TrimSpace(text) == "" {
		return ROI{}
	}
	return ROI{raw: text}
}

// Present reports whether the ROI holds anything other than the empty marker.
func (r ROI) Present() bool { return r.valid || r.raw != "" }

// Ratio returns the numeric ratio. Carried-over text counts only when it
// parses as a finite number.
func (r ROI) Ratio() (float64, bool) {
	if r.valid {
		return r.ratio, true
	}
	if r.raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(r.raw), 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// String renders the tabular cell value: "" when not applicable.
func (r ROI) String() string {
	switch {
	case r.raw != "":
		return r.raw
	case r.valid:
		return formatNumber(r.ratio)
	default:
		return ""
	}
}

func (r ROI) MarshalJSON() ([]byte, error) {
	switch {
	case r.valid:
		return json.Marshal(r.ratio)
	case r.raw != "":
		return json.Marshal(r.raw)
	default:
		return []byte("null"), nil
	}
}

func (r *ROI) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*r = RatioROI(t)
	case string:
		*r = RawROI(t)
	default:
		*r = NoROI()
	}
	return nil
}

// Entry is a LineItem held in the working set. ID and Version are handles
// of the working set and never reach the tabular file.
type Entry struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	LineItem
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
