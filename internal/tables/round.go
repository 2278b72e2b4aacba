package tables

import (
	"fmt"
	"math"
	"strconv"
)

// comparisonDigits is the precision numeric cells are normalized to before
// matching: first rounded to this many decimal places, then to this many
// significant digits, in that order.
const comparisonDigits = 4

func roundDecimals(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	pow := math.Pow(10, float64(digits))
	return math.Round(x*pow) / pow
}

// formatFloat renders x with at most comparisonDigits significant digits.
// Formatting with a fixed precision performs the significant-digit
// rounding without a lossy power-of-ten division.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', comparisonDigits, 64)
}

// formatCell stringifies a cell twice: the rounded form used for matching
// and the full-precision original form used for the encoding-artifact
// check. Non-numeric cells are coerced verbatim.
func formatCell(v Cell) (rounded, original string) {
	switch x := v.(type) {
	case float64:
		return formatFloat(roundDecimals(x, comparisonDigits)), strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return formatCell(float64(x))
	case int:
		return formatFloat(roundDecimals(float64(x), comparisonDigits)), strconv.Itoa(x)
	case int64:
		return formatFloat(roundDecimals(float64(x), comparisonDigits)), strconv.FormatInt(x, 10)
	case uint64:
		return formatFloat(roundDecimals(float64(x), comparisonDigits)), strconv.FormatUint(x, 10)
	case bool:
		s := strconv.FormatBool(x)
		return s, s
	case string:
		return x, x
	case nil:
		return "", ""
	default:
		s := fmt.Sprint(x)
		return s, s
	}
}
