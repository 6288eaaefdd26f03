package usage

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatTB renders a terabyte figure with thousands separators and at most
// two decimals, e.g. "7,416.93 TB".
func FormatTB(v float64) string {
	return humanize.CommafWithDigits(math.Round(v*100)/100, 2) + " TB"
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatFixed2 renders v with exactly two decimals.
func FormatFixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
