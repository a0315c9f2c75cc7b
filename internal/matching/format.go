package matching

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notAvailable = "N/A"

// maxDisplayable is the largest magnitude rendered as a grouped integer.
const maxDisplayable = 1 << 53

// groupInt renders an integer with thousands separators.
func groupInt(v int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", v)
}

// displayable reports whether v is finite and small enough to round into an int64.
func displayable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= maxDisplayable
}

func formatMoney(v float64) string {
	if !displayable(v) {
		return notAvailable
	}
	rounded := int64(math.Round(v))
	if rounded < 0 {
		return "-$" + groupInt(-rounded)
	}
	return "$" + groupInt(rounded)
}

func formatSize(v float64) string {
	if !displayable(v) {
		return notAvailable
	}
	return groupInt(int64(math.Round(v))) + " sq ft"
}

func formatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", v)
}

func formatDays(v int) string {
	if v == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", v)
}

// formatBounds renders a min/max pair, using "Any" for a missing bound.
func formatBounds(lo, hi *float64, format func(float64) string) string {
	left, right := "Any", "Any"
	if lo != nil {
		left = format(*lo)
	}
	if hi != nil {
		right = format(*hi)
	}
	return left + " - " + right
}

func formatList(values []string) string {
	return strings.Join(nonBlank(values), ", ")
}

func optFloat(v *float64, format func(float64) string) string {
	if v == nil {
		return notAvailable
	}
	return format(*v)
}
