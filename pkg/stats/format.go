package stats

import (
	"strconv"
	"strings"
)

// FormatCount renders a counter in compact form: 950 stays "950", 1500
// becomes "1.5k", 2300000 becomes "2.3M". A trailing ".0" is suppressed,
// so 1000 renders as "1k".
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return formatScaled(float64(n)/1_000_000) + "M"
	case n >= 1_000:
		return formatScaled(float64(n)/1_000) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func formatScaled(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
