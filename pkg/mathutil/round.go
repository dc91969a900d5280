// Package mathutil holds the numeric helpers shared by the scoring engines.
package mathutil

import (
	"strconv"
	"strings"
)

// Round rounds the exact binary value of v to places decimal places. Only
// values exactly halfway resolve to the even neighbour, so 0.05 (stored just
// above the half) rounds up to 0.1.
func Round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// Decimal formats v with the fewest digits that round-trip and always at
// least one fractional digit, so 1000 renders as "1000.0".
func Decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
