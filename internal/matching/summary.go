package matching

import "strings"

const (
	summarySeparator = " | "
	summaryAny       = "Any property"
)

// Summarize renders the specified criteria as a single display line.
func Summarize(cr Criteria) string {
	if cr.IsEmpty() {
		return summaryAny
	}

	parts := make([]string, 0, 8)

	if cr.PriceMin != nil || cr.PriceMax != nil {
		parts = append(parts, "Price: "+formatBounds(cr.PriceMin, cr.PriceMax, formatMoney))
	}
	if types := formatList(cr.PropertyTypes); types != "" {
		parts = append(parts, "Types: "+types)
	}
	if locations := formatList(cr.Locations); locations != "" {
		parts = append(parts, "Locations: "+locations)
	}
	if cr.SizeMin != nil || cr.SizeMax != nil {
		parts = append(parts, "Size: "+formatBounds(cr.SizeMin, cr.SizeMax, formatSize))
	}
	if cr.MinCapRate != nil {
		parts = append(parts, "Min Cap Rate: "+formatPercent(*cr.MinCapRate))
	}
	if cr.MinCashFlow != nil {
		parts = append(parts, "Min Cash Flow: "+formatMoney(*cr.MinCashFlow)+"/mo")
	}
	if cr.MaxDaysOnMarket != nil {
		parts = append(parts, "Max Days on Market: "+formatDays(*cr.MaxDaysOnMarket))
	}
	if keywords := formatList(cr.Keywords); keywords != "" {
		parts = append(parts, "Keywords: "+keywords)
	}

	return strings.Join(parts, summarySeparator)
}
