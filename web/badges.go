package web

import (
	"fmt"
	"math"
)

// Badge strings shown in the results header, e.g. "20 results", "1.4s",
// "87% confidence".

func ResultsBadge(total int) string {
	if total == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", total)
}

func ElapsedBadge(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}

func ConfidenceBadge(score float64) string {
	return fmt.Sprintf("%d%% confidence", int(math.Round(score*100)))
}
