package overhead

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	percentDigits = 4
	percentWidth  = 5
)

// FormatPercent renders v with 4 significant digits, right aligned to 5
// columns. Fixed notation always keeps one fractional digit (5 -> "  5.0"),
// so values that round to 1000 or more switch to exponent form (1234 -> "1.234e+03").
func FormatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'g', percentDigits, 64)
	if !math.IsInf(v, 0) && !math.IsNaN(v) {
		if e := strconv.FormatFloat(v, 'e', percentDigits-1, 64); decimalExponent(e) >= percentDigits-1 {
			s = trimMantissa(e)
		}
	}
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return fmt.Sprintf("%*s", percentWidth, s)
}

// decimalExponent returns the exponent of a number in 'e' notation
func decimalExponent(e string) int {
	i := strings.IndexByte(e, 'e')
	if i < 0 {
		return 0
	}
	exp, _ := strconv.Atoi(e[i+1:])
	return exp
}

// trimMantissa drops trailing zeros of the mantissa: "2.000e+03" -> "2e+03"
func trimMantissa(e string) string {
	i := strings.IndexByte(e, 'e')
	mantissa := strings.TrimRight(strings.TrimRight(e[:i], "0"), ".")
	return mantissa + e[i:]
}
