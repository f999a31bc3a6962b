package till

import (
	"strconv"

	"till/pos/fonts/tillfont"
)

// FormatAmount renders v as a rupee amount with exactly two decimals.
func FormatAmount(v float64) string {
	return string(tillfont.Rupee) + strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatDiscount renders a discount line amount; it always carries a minus sign.
func FormatDiscount(v float64) string {
	return "-" + FormatAmount(v)
}

func itemLabel(i int) string {
	return "Item " + strconv.Itoa(i+1)
}
