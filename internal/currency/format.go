// Package currency formats KZT amounts for customer-facing text.
package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatKZT renders an amount with a space thousands separator, a comma
// decimal and the tenge glyph: 12345.5 -> "12 345,50 ₸". Whole amounts drop
// the fraction part: 0 -> "0 ₸".
func FormatKZT(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	rounded := math.Round(amount*100) / 100
	whole := int64(math.Floor(rounded))
	frac := int64(math.Round((rounded - float64(whole)) * 100))
	if frac >= 100 {
		whole++
		frac -= 100
	}

	out := groupThousands(whole)
	if frac != 0 {
		out = fmt.Sprintf("%s,%02d", out, frac)
	}
	if neg {
		out = "-" + out
	}
	return out + " ₸"
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
