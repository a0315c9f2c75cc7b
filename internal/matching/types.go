// Package matching scores property listings against alert criteria.
package matching

import (
	"math"
	"strings"
	"time"
)

// Criterion names used in match details.
const (
	CriterionPrice        = "price"
	CriterionType         = "type"
	CriterionLocation     = "location"
	CriterionSize         = "size"
	CriterionCapRate      = "cap_rate"
	CriterionCashFlow     = "cash_flow"
	CriterionDaysOnMarket = "days_on_market"
	CriterionKeywords     = "keywords"
)

// Candidate is a property listing evaluated against alert criteria.
// Empty strings and nil pointers mean the attribute is unknown.
type Candidate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`

	Price *float64 `json:"price,omitempty"`
	Size  *float64 `json:"size,omitempty"`
	// CapRate is expressed in percent, 6.5 means 6.5%.
	CapRate         *float64 `json:"capRate,omitempty"`
	MonthlyCashFlow *float64 `json:"monthlyCashFlow,omitempty"`
	DaysOnMarket    *int     `json:"daysOnMarket,omitempty"`

	Agent  string `json:"agent,omitempty"`
	Status string `json:"status,omitempty"`
}

// Criteria holds the optional constraints of an alert.
// A nil pointer or a slice without non-blank entries does not constrain the match.
type Criteria struct {
	PriceMin        *float64 `json:"priceMin,omitempty"`
	PriceMax        *float64 `json:"priceMax,omitempty"`
	SizeMin         *float64 `json:"sizeMin,omitempty"`
	SizeMax         *float64 `json:"sizeMax,omitempty"`
	PropertyTypes   []string `json:"propertyTypes,omitempty"`
	Locations       []string `json:"locations,omitempty"`
	MinCapRate      *float64 `json:"minCapRate,omitempty"`
	MinCashFlow     *float64 `json:"minCashFlow,omitempty"`
	MaxDaysOnMarket *int     `json:"maxDaysOnMarket,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`

	// LocationRadius is stored with the alert but not used for matching.
	LocationRadius *float64 `json:"locationRadius,omitempty"`
}

// IsEmpty reports whether no criterion is specified.
func (c Criteria) IsEmpty() bool {
	return c.PriceMin == nil && c.PriceMax == nil &&
		c.SizeMin == nil && c.SizeMax == nil &&
		len(nonBlank(c.PropertyTypes)) == 0 &&
		len(nonBlank(c.Locations)) == 0 &&
		c.MinCapRate == nil && c.MinCashFlow == nil &&
		c.MaxDaysOnMarket == nil &&
		len(nonBlank(c.Keywords)) == 0
}

// Alert is a saved property alert.
type Alert struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Criteria  Criteria `json:"criteria"`
	Active    bool     `json:"active"`
	Frequency string   `json:"frequency,omitempty"`
}

// CriterionDetail is the outcome of a single criterion group.
type CriterionDetail struct {
	Criterion string `json:"criterion"`
	Matched   bool   `json:"matched"`
	Value     string `json:"value"`
	Expected  string `json:"expected"`
	Score     int    `json:"score"`
}

// MatchResult is the outcome of evaluating one candidate against one criteria set.
type MatchResult struct {
	Candidate Candidate `json:"property"`
	Matched   bool      `json:"matched"`
	Score     float64   `json:"score"`
	// Scored is false when no criterion was evaluated and Score carries no meaning.
	Scored  bool              `json:"scored"`
	Details []CriterionDetail `json:"details"`
}

// Percent returns the score rounded for display and whether a score exists.
func (r MatchResult) Percent() (int, bool) {
	if !r.Scored {
		return 0, false
	}
	return int(math.Round(r.Score)), true
}

// Detail returns the detail for the named criterion.
func (r MatchResult) Detail(criterion string) (CriterionDetail, bool) {
	for _, d := range r.Details {
		if d.Criterion == criterion {
			return d, true
		}
	}
	return CriterionDetail{}, false
}

// TriggeredAlert groups the candidates matched by an alert in one evaluation pass.
type TriggeredAlert struct {
	ID          string        `json:"id"`
	Alert       Alert         `json:"alert"`
	Matches     []MatchResult `json:"matches"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
	Count       int           `json:"count"`
}

// CandidateIDs returns IDs of the matched candidates in match order.
func (t *TriggeredAlert) CandidateIDs() []string {
	ids := make([]string, 0, len(t.Matches))
	for _, m := range t.Matches {
		ids = append(ids, m.Candidate.ID)
	}
	return ids
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
