// Package format renders metric magnitudes for display.
package format

import (
	"fmt"
	"strconv"
)

// Number abbreviates a count: 1200000 -> "1.2M", 1500 -> "1.5K", 999 -> "999"
func Number(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Growth renders a signed percentage delta such as "+4.2%" or "-1.0%"
func Growth(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// Percent renders a percentage with one decimal
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
