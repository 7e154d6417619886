package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeNumber coerces a cell value into a finite number. Absent, blank,
// unparseable and non-finite input all become 0; thousands separators are
// ignored.
func NormalizeNumber(v any) float64 {
	var text string
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(t)
	case float32:
		return finiteOrZero(float64(t))
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case string:
		text = t
	case *string:
		if t == nil {
			return 0
		}
		text = *t
	default:
		text = fmt.Sprint(t)
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if text == "" || isHex(text) {
		return 0
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(n)
}

// isHex reports whether text uses the hex float syntax ParseFloat accepts
// on top of plain decimals.
func isHex(text string) bool {
	text = strings.TrimLeft(text, "+-")
	return len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

func finiteOrZero(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}

// formatNumber is the inverse rendering used on export: the shortest
// decimal text that parses back to v, never in exponent form.
func formatNumber(v float64) string {
	if v == 0 {
		// also folds -0
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
