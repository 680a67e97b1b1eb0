package calculator

import "fmt"

// NoChange is reported for a point without a predecessor.
const NoChange = "0.00%"

// PercentChange returns (cur-prev)/prev*100, or 0 when prev is zero.
func PercentChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// FormatChange renders a percentage with an explicit sign when non-negative.
func FormatChange(pct float64) string {
	if pct == 0 {
		// avoid "-0.00%" for negative zero
		pct = 0
	}
	return fmt.Sprintf("%+.2f%%", pct)
}
