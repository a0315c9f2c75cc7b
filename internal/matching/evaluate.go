package matching

import "strings"

// Evaluate scores a candidate against the criteria. Only specified criteria are
// evaluated; each contributes one detail entry and must match for the result to
// match. Evaluate never fails: missing candidate attributes fail the criterion.
func Evaluate(c Candidate, cr Criteria) MatchResult {
	details := make([]CriterionDetail, 0, 8)

	if cr.PriceMin != nil || cr.PriceMax != nil {
		matched, score := rangeScore(c.Price, cr.PriceMin, cr.PriceMax)
		details = append(details, CriterionDetail{
			Criterion: CriterionPrice,
			Matched:   matched,
			Value:     optFloat(c.Price, formatMoney),
			Expected:  formatBounds(cr.PriceMin, cr.PriceMax, formatMoney),
			Score:     score,
		})
	}

	if types := nonBlank(cr.PropertyTypes); len(types) > 0 {
		matched := containsFold(types, c.Type)
		details = append(details, CriterionDetail{
			Criterion: CriterionType,
			Matched:   matched,
			Value:     orNotAvailable(c.Type),
			Expected:  strings.Join(types, ", "),
			Score:     binaryScore(matched),
		})
	}

	if locations := nonBlank(cr.Locations); len(locations) > 0 {
		matched, score := locationScore(c.Location, locations)
		details = append(details, CriterionDetail{
			Criterion: CriterionLocation,
			Matched:   matched,
			Value:     orNotAvailable(c.Location),
			Expected:  strings.Join(locations, ", "),
			Score:     score,
		})
	}

	if cr.SizeMin != nil || cr.SizeMax != nil {
		matched, score := rangeScore(c.Size, cr.SizeMin, cr.SizeMax)
		details = append(details, CriterionDetail{
			Criterion: CriterionSize,
			Matched:   matched,
			Value:     optFloat(c.Size, formatSize),
			Expected:  formatBounds(cr.SizeMin, cr.SizeMax, formatSize),
			Score:     score,
		})
	}

	if cr.MinCapRate != nil {
		matched := c.CapRate != nil && *c.CapRate >= *cr.MinCapRate
		details = append(details, CriterionDetail{
			Criterion: CriterionCapRate,
			Matched:   matched,
			Value:     optFloat(c.CapRate, formatPercent),
			Expected:  "≥ " + formatPercent(*cr.MinCapRate),
			Score:     binaryScore(matched),
		})
	}

	if cr.MinCashFlow != nil {
		matched := c.MonthlyCashFlow != nil && *c.MonthlyCashFlow >= *cr.MinCashFlow
		details = append(details, CriterionDetail{
			Criterion: CriterionCashFlow,
			Matched:   matched,
			Value:     optFloat(c.MonthlyCashFlow, formatMoney),
			Expected:  "≥ " + formatMoney(*cr.MinCashFlow),
			Score:     binaryScore(matched),
		})
	}

	if cr.MaxDaysOnMarket != nil {
		matched := c.DaysOnMarket != nil && *c.DaysOnMarket <= *cr.MaxDaysOnMarket
		value := notAvailable
		if c.DaysOnMarket != nil {
			value = formatDays(*c.DaysOnMarket)
		}
		details = append(details, CriterionDetail{
			Criterion: CriterionDaysOnMarket,
			Matched:   matched,
			Value:     value,
			Expected:  "≤ " + formatDays(*cr.MaxDaysOnMarket),
			Score:     binaryScore(matched),
		})
	}

	if keywords := nonBlank(cr.Keywords); len(keywords) > 0 {
		found, requested := keywordScore(&c, keywords)
		value := "none"
		if len(found) > 0 {
			value = strings.Join(found, ", ")
		}
		details = append(details, CriterionDetail{
			Criterion: CriterionKeywords,
			Matched:   len(found) > 0,
			Value:     value,
			Expected:  strings.Join(keywords, ", "),
			Score:     ratioScore(len(found), requested),
		})
	}

	return aggregate(c, details)
}

func aggregate(c Candidate, details []CriterionDetail) MatchResult {
	result := MatchResult{
		Candidate: c,
		Matched:   true,
		Details:   details,
	}

	if len(details) == 0 {
		return result
	}

	total := 0
	for _, d := range details {
		if !d.Matched {
			result.Matched = false
		}
		total += d.Score
	}

	result.Score = float64(total) / float64(len(details))
	result.Scored = true

	return result
}

func binaryScore(matched bool) int {
	if matched {
		return 100
	}
	return 0
}

func containsFold(set []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

func orNotAvailable(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notAvailable
	}
	return s
}
